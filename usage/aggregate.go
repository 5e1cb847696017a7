package usage

import (
	"slices"
	"strings"

	"github.com/teranos/sembrowse/semconv"
)

// Stats summarises one Aggregate pass.
type Stats struct {
	Exact     int `json:"exact"`
	Template  int `json:"template"`
	Unmatched int `json:"unmatched"`
}

// Aggregate records, on each catalog attribute, which datasets use it.
// A column matching an attribute name exactly adds the dataset to UsedBy.
// Otherwise the column is split at its last "." and, when the left side
// names a template attribute, the right side is recorded as a suffix.
// Declared column types of matched columns are kept in ColumnTypes.
// Datasets are visited in sorted order so the result does not depend on
// collection order. Call Finalize afterwards.
func Aggregate(catalog semconv.Catalog, observed Observed) Stats {
	var stats Stats

	datasets := make([]string, 0, len(observed))
	for d := range observed {
		datasets = append(datasets, d)
	}
	slices.Sort(datasets)

	for _, dataset := range datasets {
		for _, column := range observed[dataset] {
			name := column.Name
			if attr, ok := catalog[name]; ok {
				attr.UsedBy = append(attr.UsedBy, dataset)
				recordType(attr, column)
				stats.Exact++
				continue
			}

			i := strings.LastIndex(name, ".")
			if i < 0 {
				stats.Unmatched++
				continue
			}
			attr, ok := catalog[name[:i]]
			if !ok || !attr.IsTemplate() {
				stats.Unmatched++
				continue
			}
			if attr.TemplateSuffixes == nil {
				attr.TemplateSuffixes = make(map[string][]string)
			}
			suffix := name[i+1:]
			attr.TemplateSuffixes[suffix] = append(attr.TemplateSuffixes[suffix], dataset)
			recordType(attr, column)
			stats.Template++
		}
	}
	return stats
}

func recordType(attr *semconv.Attribute, column Column) {
	if column.Type == "" {
		return
	}
	if attr.ColumnTypes == nil {
		attr.ColumnTypes = make(map[string][]string)
	}
	attr.ColumnTypes[column.Name] = append(attr.ColumnTypes[column.Name], column.Type)
}

// Finalize sorts and deduplicates every UsedBy list, every template
// suffix dataset list and every column type list.
func Finalize(catalog semconv.Catalog) {
	for _, attr := range catalog {
		attr.UsedBy = sortUnique(attr.UsedBy)
		for suffix, datasets := range attr.TemplateSuffixes {
			attr.TemplateSuffixes[suffix] = sortUnique(datasets)
		}
		for column, types := range attr.ColumnTypes {
			attr.ColumnTypes[column] = sortUnique(types)
		}
	}
}

func sortUnique(s []string) []string {
	if len(s) == 0 {
		return s
	}
	slices.Sort(s)
	return slices.Compact(s)
}
