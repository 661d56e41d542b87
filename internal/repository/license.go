package repository

import (
	"os"
	"path/filepath"
	"strings"
)

// License identifies the license file of a repository.
type License struct {
	// SPDX is the SPDX identifier, empty when the text was not recognised.
	SPDX string
	Name string
	// Path is relative to the repository root.
	Path string
}

var licenseFiles = []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "LICENCE", "LICENCE.md", "COPYING"}

// titleWindow is how much of the normalised text is searched for a title.
const titleWindow = 300

// licenseRules are checked in order. A rule matches when its title occurs
// near the top of the text and all its phrases occur anywhere.
var licenseRules = []struct {
	spdx    string
	name    string
	title   string
	phrases []string
}{
	{"AGPL-3.0", "GNU Affero General Public License v3.0", "gnu affero general public license version 3", nil},
	{"LGPL-3.0", "GNU Lesser General Public License v3.0", "gnu lesser general public license version 3", nil},
	{"GPL-3.0", "GNU General Public License v3.0", "gnu general public license version 3", nil},
	{"GPL-2.0", "GNU General Public License v2.0", "gnu general public license version 2", nil},
	{"Apache-2.0", "Apache License 2.0", "apache license version 2.0", nil},
	{"MPL-2.0", "Mozilla Public License 2.0", "mozilla public license version 2.0", nil},
	{"BSD-3-Clause", "BSD 3-Clause License", "", []string{"redistribution and use in source and binary forms", "neither the name"}},
	{"BSD-2-Clause", "BSD 2-Clause License", "", []string{"redistribution and use in source and binary forms"}},
	{"Unlicense", "The Unlicense", "", []string{"this is free and unencumbered software released into the public domain"}},
	{"ISC", "ISC License", "", []string{"permission to use, copy, modify, and/or distribute this software for any purpose"}},
	{"MIT", "MIT License", "", []string{"permission is hereby granted, free of charge", "the above copyright notice"}},
}

// DetectLicense looks for a license file in root and identifies it. It
// returns nil when no license file exists.
func DetectLicense(root string) *License {
	for _, name := range licenseFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		l := IdentifyLicense(string(data))
		l.Path = name
		return &l
	}
	return nil
}

// IdentifyLicense matches license text against known licenses.
func IdentifyLicense(text string) License {
	normalised := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	head := normalised
	if len(head) > titleWindow {
		head = head[:titleWindow]
	}
	for _, rule := range licenseRules {
		matched := rule.title == "" || strings.Contains(head, rule.title)
		for _, phrase := range rule.phrases {
			if !matched {
				break
			}
			matched = strings.Contains(normalised, phrase)
		}
		if matched {
			return License{SPDX: rule.spdx, Name: rule.name}
		}
	}
	return License{}
}
