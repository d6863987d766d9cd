
package grading

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ExportConfig serializes the scale as a YAML key-value document with the
// keys scale_type, grade_mappings, grade_boundaries and passing_grade.
// Boundary entries are written in band order so that a re-imported scale
// keeps the same first-match lookup semantics.
func (s *Scale) ExportConfig() ([]byte, error) {
	mappings := &yaml.Node{Kind: yaml.MappingNode}
	for _, grade := range s.mappingOrder() {
		mappings.Content = append(mappings.Content,
			scalarNode(grade), floatNode(s.Points[grade]))
	}

	boundaries := &yaml.Node{Kind: yaml.MappingNode}
	for _, band := range s.Bands {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		seq.Content = append(seq.Content, floatNode(band.Min), floatNode(band.Max))
		boundaries.Content = append(boundaries.Content, scalarNode(band.Grade), seq)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content,
		scalarNode("scale_type"), scalarNode(s.ScaleType),
		scalarNode("grade_mappings"), mappings,
		scalarNode("grade_boundaries"), boundaries,
		scalarNode("passing_grade"), scalarNode(s.PassingGrade),
	)

	return yaml.Marshal(doc)
}

// mappingOrder lists point-mapping grades in band order, then any grades that
// only exist in the point mapping, alphabetically.
func (s *Scale) mappingOrder() []string {
	order := make([]string, 0, len(s.Points))
	seen := make(map[string]bool, len(s.Points))
	for _, band := range s.Bands {
		if _, ok := s.Points[band.Grade]; ok && !seen[band.Grade] {
			order = append(order, band.Grade)
			seen[band.Grade] = true
		}
	}
	var extras []string
	for grade := range s.Points {
		if !seen[grade] {
			extras = append(extras, grade)
		}
	}
	sort.Strings(extras)
	return append(order, extras...)
}

// ParseConfig reconstructs a Scale from a YAML document produced by
// ExportConfig (or written by hand). The grade_boundaries mapping is read
// through the yaml node tree so document order becomes band order.
func ParseConfig(data []byte) (*Scale, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse scale configuration: %w", err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("scale configuration must be a YAML mapping")
	}
	top := root.Content[0]

	scale := &Scale{
		ScaleType:    "4.0",
		Points:       map[string]float64{},
		PassingGrade: DefaultPassingGrade,
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		value := top.Content[i+1]
		switch key {
		case "scale_type":
			scale.ScaleType = value.Value
		case "passing_grade":
			scale.PassingGrade = value.Value
		case "grade_mappings":
			if value.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("grade_mappings must be a mapping")
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				grade := value.Content[j].Value
				points, err := parseFloatNode(value.Content[j+1])
				if err != nil {
					return nil, fmt.Errorf("invalid point value for grade '%s': %w", grade, err)
				}
				scale.Points[grade] = points
			}
		case "grade_boundaries":
			if value.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("grade_boundaries must be a mapping")
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				grade := value.Content[j].Value
				seq := value.Content[j+1]
				if seq.Kind != yaml.SequenceNode || len(seq.Content) != 2 {
					return nil, fmt.Errorf("boundary for grade '%s' must be a [min, max] pair", grade)
				}
				min, err := parseFloatNode(seq.Content[0])
				if err != nil {
					return nil, fmt.Errorf("invalid lower bound for grade '%s': %w", grade, err)
				}
				max, err := parseFloatNode(seq.Content[1])
				if err != nil {
					return nil, fmt.Errorf("invalid upper bound for grade '%s': %w", grade, err)
				}
				scale.Bands = append(scale.Bands, Band{Grade: grade, Min: min, Max: max})
			}
		}
	}

	return scale, nil
}

func scalarNode(v string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(v)
	return n
}

func floatNode(v float64) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: strconv.FormatFloat(v, 'g', -1, 64),
	}
}

func parseFloatNode(n *yaml.Node) (float64, error) {
	return strconv.ParseFloat(n.Value, 64)
}
