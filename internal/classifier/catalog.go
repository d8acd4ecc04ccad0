package classifier

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"BankSentinel/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed narratives.yaml
var narrativesYAML []byte

// defaultCatalog is parsed once from the embedded narratives and never modified.
var defaultCatalog = mustLoadCatalog(narrativesYAML)

type catalogFile struct {
	Intro           string                      `yaml:"intro"`
	Metrics         map[model.Metric]metricFile `yaml:"metrics"`
	Recommendations map[model.Role]roleFile     `yaml:"recommendations"`
	Placeholder     struct {
		Summary        string `yaml:"summary"`
		Recommendation string `yaml:"recommendation"`
	} `yaml:"placeholder"`
}

type metricFile struct {
	Label   string                  `yaml:"label"`
	Percent bool                    `yaml:"percent"`
	Zones   map[model.Zone]zoneFile `yaml:"zones"`
}

type zoneFile struct {
	Status  string `yaml:"status"`
	Summary string `yaml:"summary"`
}

type roleFile struct {
	Heading string                       `yaml:"heading"`
	Buckets map[model.Bucket]verdictFile `yaml:"buckets"`
}

type verdictFile struct {
	Verdict string `yaml:"verdict"`
	Text    string `yaml:"text"`
}

// Catalog holds the parsed narrative templates. It is read-only after LoadCatalog.
type Catalog struct {
	intro           *template.Template
	metrics         map[model.Metric]metricText
	recommendations map[model.Role]map[model.Bucket]verdictText

	placeholderSummary        string
	placeholderRecommendation string
}

type metricText struct {
	label   string
	percent bool
	zones   map[model.Zone]zoneText
}

type zoneText struct {
	status  string
	summary *template.Template
}

type verdictText struct {
	verdict string
	text    *template.Template
}

// templateData is what every narrative template may reference.
type templateData struct {
	Bank  string
	Value string
	Color string
}

var (
	allZones   = []model.Zone{model.ZoneDanger, model.ZoneWarning, model.ZoneSafe}
	allRoles   = []model.Role{model.RoleInvestor, model.RoleAuditor}
	allBuckets = []model.Bucket{model.BucketAdverse, model.BucketModerate, model.BucketFavorable}
)

// LoadCatalog parses a YAML narrative catalog. Every metric needs all three
// zones and every role all three buckets.
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		metrics:                   make(map[model.Metric]metricText, len(model.Metrics)),
		recommendations:           make(map[model.Role]map[model.Bucket]verdictText, len(allRoles)),
		placeholderSummary:        f.Placeholder.Summary,
		placeholderRecommendation: f.Placeholder.Recommendation,
	}

	var err error
	if c.intro, err = parseTemplate("intro", f.Intro); err != nil {
		return nil, err
	}

	for _, m := range model.Metrics {
		mf, ok := f.Metrics[m]
		if !ok {
			return nil, fmt.Errorf("catalog: metric %s missing", m)
		}
		mt := metricText{label: mf.Label, percent: mf.Percent, zones: make(map[model.Zone]zoneText, len(allZones))}
		for _, z := range allZones {
			zf, ok := mf.Zones[z]
			if !ok {
				return nil, fmt.Errorf("catalog: metric %s has no %s zone", m, z)
			}
			tmpl, err := parseTemplate(fmt.Sprintf("%s.%s", m, z), zf.Summary)
			if err != nil {
				return nil, err
			}
			mt.zones[z] = zoneText{status: zf.Status, summary: tmpl}
		}
		c.metrics[m] = mt
	}

	for _, r := range allRoles {
		rf, ok := f.Recommendations[r]
		if !ok {
			return nil, fmt.Errorf("catalog: role %s missing", r)
		}
		verdicts := make(map[model.Bucket]verdictText, len(allBuckets))
		for _, b := range allBuckets {
			vf, ok := rf.Buckets[b]
			if !ok {
				return nil, fmt.Errorf("catalog: role %s has no %s bucket", r, b)
			}
			// Heading and verdict are catalog text, so they go into the template source as-is.
			src := fmt.Sprintf("<strong>%s:</strong> %s. %s", rf.Heading, vf.Verdict, vf.Text)
			tmpl, err := parseTemplate(fmt.Sprintf("%s.%s", r, b), src)
			if err != nil {
				return nil, err
			}
			verdicts[b] = verdictText{verdict: vf.Verdict, text: tmpl}
		}
		c.recommendations[r] = verdicts
	}

	return c, nil
}

func mustLoadCatalog(data []byte) *Catalog {
	c, err := LoadCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("classifier: embedded narratives: %v", err))
	}
	return c
}

func parseTemplate(name, src string) (*template.Template, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("catalog: template %s is empty", name)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("catalog: template %s: %w", name, err)
	}
	return tmpl, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
