package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"goimpact/domain/core"
	"goimpact/domain/impact"

	"gopkg.in/yaml.v3"
)

// Section names of the analysis document.
const (
	SectionIngest = "Ingest"
	SectionStats  = "StatsTesting2x2Cont"
)

// Document is a parsed analysis document: section name to key/value pairs.
type Document map[string]map[string]interface{}

// AnalysisDocument is a loaded analysis document ready to run.
type AnalysisDocument struct {
	Config impact.AnalysisConfig
	// DataPath is Ingest.filepath resolved against the document's directory.
	// Empty when the document does not name a data file.
	DataPath string
}

// ParseDocument decodes YAML into sections. Top-level keys must map to
// mappings; anything else is a configuration error.
func ParseDocument(data []byte) (Document, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, core.NewConfigurationError("document", fmt.Sprintf("invalid YAML: %v", err))
	}

	doc := make(Document, len(raw))
	for name, v := range raw {
		if v == nil {
			doc[name] = map[string]interface{}{}
			continue
		}
		section, ok := v.(map[string]interface{})
		if !ok {
			return nil, core.NewConfigurationError(name, "expected a mapping of keys")
		}
		doc[name] = section
	}
	return doc, nil
}

// MergeDocuments overlays each document onto base, key by key within each
// section. Neither input is modified.
func MergeDocuments(base Document, overlays ...Document) Document {
	out := make(Document, len(base))
	merge := func(d Document) {
		for name, section := range d {
			dst, ok := out[name]
			if !ok {
				dst = make(map[string]interface{}, len(section))
				out[name] = dst
			}
			for k, v := range section {
				dst[k] = v
			}
		}
	}
	merge(base)
	for _, o := range overlays {
		merge(o)
	}
	return out
}

// AnalysisConfig extracts and validates the run configuration.
func (d Document) AnalysisConfig() (impact.AnalysisConfig, error) {
	var cfg impact.AnalysisConfig
	r := sectionReader{doc: d}

	cfg.GroupColumn = r.str(SectionIngest, "group_variable")
	cfg.GroupTargetValue = r.str(SectionIngest, "group_target_val")
	cfg.GroupOtherValue = r.str(SectionIngest, "group_other_val")
	cfg.OutcomeColumn = r.str(SectionIngest, "outcome_variable")
	cfg.OutcomeTargetValue = r.str(SectionIngest, "outcome_target_val")
	cfg.OutcomeOtherValue = r.str(SectionIngest, "outcome_other_val")
	cfg.SubgroupColumn = r.str(SectionIngest, "grpers")
	cfg.SubgroupValue = r.str(SectionIngest, "grpers_val")

	cfg.Alpha = r.float(SectionStats, "alpha")
	cfg.SignificanceTestName = r.str(SectionStats, "testing")
	cfg.ProcessLabel = r.str(SectionStats, "process")
	cfg.PhiBinEdges = r.floats(SectionStats, "phi_bin_edges")
	cfg.PhiBinLabels = r.strs(SectionStats, "phi_bin_labels")

	if r.err != nil {
		return impact.AnalysisConfig{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return impact.AnalysisConfig{}, err
	}
	return cfg, nil
}

// DataPath returns Ingest.filepath, or "" when absent.
func (d Document) DataPath() (string, error) {
	section := d[SectionIngest]
	v, ok := section["filepath"]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", core.NewConfigurationError(SectionIngest+".filepath", "expected a string")
	}
	return s, nil
}

// LoadDocument reads path and any overlay documents and merges them in order.
func LoadDocument(path string, overlays ...string) (Document, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(overlays))
	for _, p := range overlays {
		o, err := readDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, o)
	}
	return MergeDocuments(doc, docs...), nil
}

// LoadAnalysisDocument loads and merges the documents, then extracts the
// run configuration.
func LoadAnalysisDocument(path string, overlays ...string) (*AnalysisDocument, error) {
	doc, err := LoadDocument(path, overlays...)
	if err != nil {
		return nil, err
	}
	return doc.Resolve(path)
}

// Resolve extracts the run configuration and resolves Ingest.filepath
// against the directory of configPath.
func (d Document) Resolve(configPath string) (*AnalysisDocument, error) {
	cfg, err := d.AnalysisConfig()
	if err != nil {
		return nil, err
	}
	dataPath, err := d.DataPath()
	if err != nil {
		return nil, err
	}
	return &AnalysisDocument{Config: cfg, DataPath: ResolveDataPath(configPath, dataPath)}, nil
}

// ResolveDataPath joins a relative data path onto the config file's directory.
func ResolveDataPath(configPath, dataPath string) string {
	if dataPath == "" || filepath.IsAbs(dataPath) {
		return dataPath
	}
	return filepath.Join(filepath.Dir(configPath), dataPath)
}

// Set assigns section.key, creating the section when needed.
func (d Document) Set(section, key string, value interface{}) {
	s, ok := d[section]
	if !ok {
		s = map[string]interface{}{}
		d[section] = s
	}
	s[key] = value
}

// SetDefault sets section.key only when the document lacks it.
func (d Document) SetDefault(section, key string, value interface{}) {
	if v, ok := d[section][key]; !ok || v == nil {
		d.Set(section, key, value)
	}
}

func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewConfigurationError(path, fmt.Sprintf("cannot read config file: %v", err))
	}
	return ParseDocument(data)
}

// sectionReader keeps the first lookup failure so extraction reads linearly.
type sectionReader struct {
	doc Document
	err error
}

func (r *sectionReader) lookup(section, key string) (interface{}, bool) {
	if r.err != nil {
		return nil, false
	}
	s, ok := r.doc[section]
	if !ok {
		r.err = core.NewConfigurationError(section, "section is missing")
		return nil, false
	}
	v, ok := s[key]
	if !ok || v == nil {
		r.err = core.NewConfigurationError(section+"."+key, "key is missing")
		return nil, false
	}
	return v, true
}

func (r *sectionReader) fail(section, key, reason string) {
	r.err = core.NewConfigurationError(section+"."+key, reason)
}

func (r *sectionReader) str(section, key string) string {
	v, ok := r.lookup(section, key)
	if !ok {
		return ""
	}
	s, ok := scalarText(v)
	if !ok {
		r.fail(section, key, fmt.Sprintf("expected a scalar value, got %T", v))
		return ""
	}
	return s
}

func (r *sectionReader) float(section, key string) float64 {
	v, ok := r.lookup(section, key)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		r.fail(section, key, fmt.Sprintf("expected a number, got %T", v))
	}
	return f
}

func (r *sectionReader) floats(section, key string) []float64 {
	v, ok := r.lookup(section, key)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		r.fail(section, key, "expected a list of numbers")
		return nil
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			r.fail(section, key, fmt.Sprintf("item %d: expected a number, got %T", i, item))
			return nil
		}
		out[i] = f
	}
	return out
}

func (r *sectionReader) strs(section, key string) []string {
	v, ok := r.lookup(section, key)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		r.fail(section, key, "expected a list of strings")
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := scalarText(item)
		if !ok {
			r.fail(section, key, fmt.Sprintf("item %d: expected a scalar value, got %T", i, item))
			return nil
		}
		out[i] = s
	}
	return out
}

// scalarText renders a YAML scalar the way the same value reads in a data
// file cell, so `outcome_target_val: 1` matches the cell "1".
func scalarText(v interface{}) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(n), true
	default:
		return "", false
	}
}

// toFloat accepts YAML integers where floats are expected.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
