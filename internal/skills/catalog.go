// Package skills holds the canonical skill catalog, set algebra over matched
// skills, and interview-track categorization.
package skills

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCatalog is the built-in canonical skill list, used when no catalog
// file is configured. Entries are unique; technical vs. soft partitioning is
// the categorizer's job, not the catalog's.
var DefaultCatalog = []string{
	// technical
	"Python", "Java", "C++", "C", "Go", "JavaScript", "TypeScript", "React",
	"Node.js", "Django", "Flask", "FastAPI", "Spring Boot",
	"SQL", "NoSQL", "PostgreSQL", "MySQL", "MongoDB", "Redis",
	"Data Structures", "Algorithms", "Object-Oriented Programming",
	"Machine Learning", "Deep Learning", "NLP", "Computer Vision",
	"Pandas", "NumPy", "TensorFlow", "PyTorch", "Scikit-learn",
	"MLOps", "CI/CD", "Docker", "Kubernetes", "Git", "Linux",
	"Cloud Computing", "AWS", "Azure", "GCP",
	"REST APIs", "GraphQL", "Microservices",
	// soft / general
	"Communication", "Teamwork", "Leadership", "Problem Solving",
	"Time Management", "Adaptability", "Critical Thinking",
	// data / analytics
	"Data Analysis", "Data Visualization", "Power BI", "Tableau", "Excel",
}

type catalogYAML struct {
	Skills []string `yaml:"skills"`
}

// LoadCatalog reads a YAML catalog file ({skills: [..]} or a bare string
// list). A missing path falls back to DefaultCatalog.
func LoadCatalog(path string) ([]string, error) {
	if path == "" {
		return DefaultCatalog, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc catalogYAML
	if err := yaml.Unmarshal(b, &doc); err == nil && len(doc.Skills) > 0 {
		return dedupe(doc.Skills), nil
	}
	var bare []string
	if err := yaml.Unmarshal(b, &bare); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(bare) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}
	return dedupe(bare), nil
}

func dedupe(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
