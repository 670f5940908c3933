// Package gazetteer holds the in-memory index of Indonesian
// administrative regions (wilayah), loaded once from the Permendagri
// 72/2019 code table and queried for the process's lifetime.
package gazetteer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
)

// Level classifies a region by the digit count of its code: 2 digits is
// a province, 4 a district, 6 a subdistrict, 7 or more a village.
type Level string

const (
	LevelProvince    Level = "province"
	LevelDistrict    Level = "district"
	LevelSubdistrict Level = "subdistrict"
	LevelVillage     Level = "village"
)

// Region is one administrative area. Parent relationships are derived
// from the code by truncating segments, never stored.
type Region struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

// SearchResult is a region with its reconstructed ancestry.
type SearchResult struct {
	Region
	FullPath   string  `json:"full_path"`
	ParentCode *string `json:"parent_code"`
}

// Stats summarizes the loaded table.
type Stats struct {
	Total        int `json:"total"`
	Provinces    int `json:"provinces"`
	Districts    int `json:"districts"`
	Subdistricts int `json:"subdistricts"`
	Villages     int `json:"villages"`
}

// keepUpper lists Indonesian administrative abbreviations that stay
// uppercase through the display title-casing pass.
var keepUpper = map[string]bool{
	"KAB.": true, "KOTA": true, "KEC.": true,
	"DESA": true, "KEL.": true, "DUSUN": true,
}

// Index is the in-memory gazetteer. Load populates it exactly once;
// all queries afterwards are read-only and need no locking.
type Index struct {
	once    sync.Once
	loadErr error

	regions map[string]Region
	// order preserves the source table's row order so Search returns a
	// stable, load-ordered subset.
	order   []string
	byLevel map[Level][]string
}

// NewIndex creates an empty, unloaded index.
func NewIndex() *Index {
	return &Index{
		regions: make(map[string]Region),
		byLevel: make(map[Level][]string),
	}
}

// Load reads the code,name table at path. Subsequent calls are no-ops
// returning the first call's result.
func (idx *Index) Load(path string) error {
	idx.once.Do(func() {
		f, err := os.Open(path)
		if err != nil {
			idx.loadErr = fmt.Errorf("open region table: %w", err)
			return
		}
		defer f.Close()
		idx.loadErr = idx.load(f)
	})
	return idx.loadErr
}

// LoadFromReader ingests the code,name table from r. Subsequent calls
// are no-ops returning the first call's result.
func (idx *Index) LoadFromReader(r io.Reader) error {
	idx.once.Do(func() {
		idx.loadErr = idx.load(r)
	})
	return idx.loadErr
}

func (idx *Index) load(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read region table: %w", err)
		}
		if len(row) != 2 {
			continue
		}
		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])

		level, ok := levelOf(code)
		if !ok {
			continue
		}

		idx.regions[code] = Region{Code: code, Name: name, Level: level}
		idx.order = append(idx.order, code)
		idx.byLevel[level] = append(idx.byLevel[level], code)
	}

	for level := range idx.byLevel {
		sort.Strings(idx.byLevel[level])
	}
	return nil
}

// levelOf derives a region's level from the digit count of its code with
// dots stripped.
func levelOf(code string) (Level, bool) {
	digits := len(strings.ReplaceAll(code, ".", ""))
	switch {
	case digits == 2:
		return LevelProvince, true
	case digits == 4:
		return LevelDistrict, true
	case digits == 6:
		return LevelSubdistrict, true
	case digits >= 7:
		return LevelVillage, true
	default:
		return "", false
	}
}

// Provinces returns every province in code order.
func (idx *Index) Provinces() []Region {
	return idx.collect(idx.byLevel[LevelProvince])
}

// Districts returns the districts whose codes are prefixed by
// provinceCode. The level bucket is scanned linearly; the table is
// loaded once and queried at low volume.
func (idx *Index) Districts(provinceCode string) []Region {
	return idx.children(LevelDistrict, provinceCode)
}

// Subdistricts returns the subdistricts under districtCode.
func (idx *Index) Subdistricts(districtCode string) []Region {
	return idx.children(LevelSubdistrict, districtCode)
}

// Villages returns the villages under subdistrictCode.
func (idx *Index) Villages(subdistrictCode string) []Region {
	return idx.children(LevelVillage, subdistrictCode)
}

func (idx *Index) children(level Level, parentCode string) []Region {
	prefix := strings.TrimSpace(parentCode) + "."
	var out []Region
	for _, code := range idx.byLevel[level] {
		if strings.HasPrefix(code, prefix) {
			out = append(out, idx.regions[code])
		}
	}
	return out
}

func (idx *Index) collect(codes []string) []Region {
	out := make([]Region, 0, len(codes))
	for _, code := range codes {
		out = append(out, idx.regions[code])
	}
	return out
}

// ByCode returns the region for code, or domain.ErrNotFound.
func (idx *Index) ByCode(code string) (Region, error) {
	region, ok := idx.regions[strings.TrimSpace(code)]
	if !ok {
		return Region{}, fmt.Errorf("%w: region %q", domain.ErrNotFound, code)
	}
	return region, nil
}

// Search scans all regions for a case-insensitive substring match on the
// name and returns at most limit results in table load order.
func (idx *Index) Search(query string, limit int) []SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []SearchResult
	for _, code := range idx.order {
		region := idx.regions[code]
		if !strings.Contains(strings.ToLower(region.Name), needle) {
			continue
		}
		out = append(out, SearchResult{
			Region:     region,
			FullPath:   idx.fullPath(region),
			ParentCode: parentCode(region),
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Describe returns a single region's search-result view (with ancestry),
// or domain.ErrNotFound.
func (idx *Index) Describe(code string) (SearchResult, error) {
	region, err := idx.ByCode(code)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Region:     region,
		FullPath:   idx.fullPath(region),
		ParentCode: parentCode(region),
	}, nil
}

// Stats reports totals per level.
func (idx *Index) Stats() Stats {
	return Stats{
		Total:        len(idx.regions),
		Provinces:    len(idx.byLevel[LevelProvince]),
		Districts:    len(idx.byLevel[LevelDistrict]),
		Subdistricts: len(idx.byLevel[LevelSubdistrict]),
		Villages:     len(idx.byLevel[LevelVillage]),
	}
}

// parentCode truncates a region's code by one segment; provinces have no
// parent.
func parentCode(region Region) *string {
	if region.Level == LevelProvince {
		return nil
	}
	parts := strings.Split(region.Code, ".")
	if len(parts) < 2 {
		return nil
	}
	parent := strings.Join(parts[:len(parts)-1], ".")
	return &parent
}

// fullPath joins the display names of a region's ancestry, outermost
// first, each ancestor looked up by truncated code.
func (idx *Index) fullPath(region Region) string {
	parts := strings.Split(region.Code, ".")
	var names []string
	for i := 1; i <= len(parts); i++ {
		ancestorCode := strings.Join(parts[:i], ".")
		if ancestor, ok := idx.regions[ancestorCode]; ok {
			names = append(names, displayName(ancestor.Name))
		}
	}
	return strings.Join(names, " > ")
}

// displayName title-cases a region name, keeping the fixed set of
// administrative abbreviations uppercase.
func displayName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		upper := strings.ToUpper(word)
		if keepUpper[upper] {
			words[i] = upper
			continue
		}
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
