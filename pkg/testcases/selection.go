// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package testcases

import "github.com/mesh-intelligence/yatm/pkg/requirements"

// Select folds steps over the catalog, starting from an empty selection.
// Include adds matching catalog requirements, Exclude removes matching
// selected ones. Steps run strictly in order, so a later Include can
// re-add what an earlier Exclude removed. Membership is keyed by name and
// the result follows catalog order.
func Select(catalog []requirements.Requirement, steps []SetStep) []requirements.Requirement {
	selected := make(map[string]bool)
	for _, step := range steps {
		switch step.Kind {
		case StepInclude:
			for _, r := range catalog {
				if step.Filter.Matches(r) {
					selected[r.Name] = true
				}
			}
		case StepExclude:
			for _, r := range catalog {
				if selected[r.Name] && step.Filter.Matches(r) {
					delete(selected, r.Name)
				}
			}
		}
	}

	out := make([]requirements.Requirement, 0, len(selected))
	emitted := make(map[string]bool, len(selected))
	for _, r := range catalog {
		if selected[r.Name] && !emitted[r.Name] {
			emitted[r.Name] = true
			out = append(out, r)
		}
	}
	return out
}
