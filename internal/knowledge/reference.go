// Package knowledge loads skill reference material, flattens it into
// retrievable documents, and serves similarity search over them.
package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SubFunction is one concrete capability under a function, with usage examples.
type SubFunction struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Examples    []string `yaml:"examples"`
}

// Function groups sub-functions under one named capability area.
type Function struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	SubFunctions []SubFunction `yaml:"sub_functions"`
}

// SkillReference is the authored knowledge file for one skill.
type SkillReference struct {
	Skill     string     `yaml:"skill"`
	Topics    []string   `yaml:"topics"`
	Functions []Function `yaml:"functions"`
}

// LoadReference reads the reference file for a skill from dir. File names are
// the lowercased skill with spaces as underscores, e.g. "power_bi.yaml".
func LoadReference(dir, skill string) (*SkillReference, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(skill)), " ", "_")
	if name == "" {
		return nil, fmt.Errorf("empty skill name")
	}
	path := filepath.Join(dir, name+".yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference for %q: %w", skill, err)
	}
	var ref SkillReference
	if err := yaml.Unmarshal(b, &ref); err != nil {
		return nil, fmt.Errorf("parse reference %s: %w", path, err)
	}
	if ref.Skill == "" {
		ref.Skill = skill
	}
	return &ref, nil
}

// HasReference reports whether a reference file exists for the skill.
func HasReference(dir, skill string) bool {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(skill)), " ", "_")
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, name+".yaml"))
	return err == nil
}
