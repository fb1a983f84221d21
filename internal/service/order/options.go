package order

import (
	"fmt"
	"sort"

	"cleaning-crm/internal/domain"
)

// optionSetters switches one recognized option on. The key set is the
// canonical list of option names.
var optionSetters = map[string]func(o *domain.ServiceOptions){
	"insideOven":        func(o *domain.ServiceOptions) { o.InsideOven = true },
	"walls":             func(o *domain.ServiceOptions) { o.Walls = true },
	"insideWindow":      func(o *domain.ServiceOptions) { o.InsideWindow = true },
	"insideFridge":      func(o *domain.ServiceOptions) { o.InsideFridge = true },
	"insideCabinets":    func(o *domain.ServiceOptions) { o.InsideCabinets = true },
	"insideDishwasher":  func(o *domain.ServiceOptions) { o.InsideDishwasher = true },
	"insideGarage":      func(o *domain.ServiceOptions) { o.InsideGarage = true },
	"microwave":         func(o *domain.ServiceOptions) { o.Microwave = true },
	"washLaundry":       func(o *domain.ServiceOptions) { o.WashLaundry = true },
	"insideWasherDryer": func(o *domain.ServiceOptions) { o.InsideWasherDryer = true },
	"swimmingPool":      func(o *domain.ServiceOptions) { o.SwimmingPool = true },
}

// ServiceOptionNames returns the recognized option names, sorted.
func ServiceOptionNames() []string {
	names := make([]string, 0, len(optionSetters))
	for name := range optionSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateServiceOptionKeys fails when partial carries a key that is not a
// recognized option name.
func ValidateServiceOptionKeys(partial map[string]bool) error {
	var unknown []string
	for key := range partial {
		if _, ok := optionSetters[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return domain.Validation(fmt.Sprintf("Invalid service options: unknown option %q", unknown[0]))
}

// DefaultServiceOptions returns a fresh value with every option off.
func DefaultServiceOptions() domain.ServiceOptions {
	return domain.ServiceOptions{}
}

// MergeServiceOptions returns a copy of base with every recognized key of
// partial whose value is true switched on. It never switches an option off.
func MergeServiceOptions(base domain.ServiceOptions, partial map[string]bool) domain.ServiceOptions {
	out := base
	for key, on := range partial {
		if !on {
			continue
		}
		if set, ok := optionSetters[key]; ok {
			set(&out)
		}
	}
	return out
}

// NormalizeServiceOptions merges partial onto the all-off defaults.
func NormalizeServiceOptions(partial map[string]bool) domain.ServiceOptions {
	return MergeServiceOptions(DefaultServiceOptions(), partial)
}
