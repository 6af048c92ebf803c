package preset

import (
	"sort"

	"github.com/AnyUserName/imgshrink/internal/compress"
)

// DefaultName is the preset used when none or an unknown one is requested.
const DefaultName = "default"

// Preset is a named bundle of compression options.
type Preset struct {
	Name                 string
	MaxSizeMB            float64 // 0 = unlimited
	MaxWidthOrHeight     float64 // 0 = unbounded
	MaxIteration         int
	FileType             string // "" = keep source type
	InitialQuality       float64
	AlwaysKeepResolution bool
}

// Built-in presets.
var presets = map[string]Preset{
	"default": {
		Name:           "default",
		MaxIteration:   compress.DefaultMaxIteration,
		InitialQuality: 1,
	},
	"wechat": {
		Name:             "wechat",
		MaxSizeMB:        1,
		MaxWidthOrHeight: 1920,
		MaxIteration:     10,
		FileType:         "jpeg",
		InitialQuality:   0.92,
	},
	"thumbnail": {
		Name:             "thumbnail",
		MaxSizeMB:        0.1,
		MaxWidthOrHeight: 320,
		MaxIteration:     15,
		FileType:         "jpeg",
		InitialQuality:   0.8,
	},
	"keep-resolution": {
		Name:                 "keep-resolution",
		MaxSizeMB:            2,
		MaxIteration:         20,
		InitialQuality:       1,
		AlwaysKeepResolution: true,
	},
}

// Get returns a preset by name. Falls back to default if unknown.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	p := presets[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in presets in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Options converts the preset into compression options.
func (p Preset) Options() compress.Options {
	o := compress.DefaultOptions()
	if p.MaxSizeMB > 0 {
		o.MaxSizeMB = p.MaxSizeMB
	}
	o.MaxWidthOrHeight = p.MaxWidthOrHeight
	o.MaxIteration = p.MaxIteration
	o.FileType = p.FileType
	if p.InitialQuality > 0 {
		o.InitialQuality = p.InitialQuality
	}
	o.AlwaysKeepResolution = p.AlwaysKeepResolution
	return o
}
