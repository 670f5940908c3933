package gazetteer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
)

func loadedIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex()
	require.NoError(t, idx.Load(filepath.Join("testdata", "wilayah.csv")))
	return idx
}

func TestIndex_Load(t *testing.T) {
	t.Run("stats per level", func(t *testing.T) {
		idx := loadedIndex(t)
		stats := idx.Stats()
		assert.Equal(t, 13, stats.Total)
		assert.Equal(t, 2, stats.Provinces)
		assert.Equal(t, 4, stats.Districts)
		assert.Equal(t, 3, stats.Subdistricts)
		assert.Equal(t, 4, stats.Villages)
	})

	t.Run("load is once only", func(t *testing.T) {
		idx := loadedIndex(t)
		require.NoError(t, idx.Load(filepath.Join("testdata", "does-not-exist.csv")))
		assert.Equal(t, 13, idx.Stats().Total)
	})

	t.Run("missing file", func(t *testing.T) {
		idx := NewIndex()
		err := idx.Load(filepath.Join("testdata", "does-not-exist.csv"))
		require.Error(t, err)
	})

	t.Run("rows with the wrong shape are skipped", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.LoadFromReader(strings.NewReader("11,ACEH\nbadcode-only\n12,SUMATERA UTARA\n")))
		assert.Equal(t, 2, idx.Stats().Total)
	})
}

func TestIndex_Hierarchy(t *testing.T) {
	idx := loadedIndex(t)

	t.Run("provinces in code order", func(t *testing.T) {
		provinces := idx.Provinces()
		require.Len(t, provinces, 2)
		assert.Equal(t, "11", provinces[0].Code)
		assert.Equal(t, "33", provinces[1].Code)
		assert.Equal(t, LevelProvince, provinces[0].Level)
	})

	t.Run("districts under a province", func(t *testing.T) {
		districts := idx.Districts("33")
		require.Len(t, districts, 2)
		assert.Equal(t, "33.26", districts[0].Code)
		assert.Equal(t, "33.74", districts[1].Code)
	})

	t.Run("prefix matching does not leak across provinces", func(t *testing.T) {
		districts := idx.Districts("11")
		require.Len(t, districts, 2)
		for _, d := range districts {
			assert.True(t, strings.HasPrefix(d.Code, "11."))
		}
	})

	t.Run("subdistricts and villages", func(t *testing.T) {
		subs := idx.Subdistricts("33.26")
		require.Len(t, subs, 1)
		assert.Equal(t, "Tirto", subs[0].Name)

		villages := idx.Villages("11.01.01")
		require.Len(t, villages, 2)
		assert.Equal(t, "11.01.01.2001", villages[0].Code)
	})

	t.Run("unknown parent yields empty", func(t *testing.T) {
		assert.Empty(t, idx.Districts("99"))
	})
}

func TestIndex_ByCode(t *testing.T) {
	idx := loadedIndex(t)

	region, err := idx.ByCode("33.26.16.1001")
	require.NoError(t, err)
	assert.Equal(t, "Pacar", region.Name)
	assert.Equal(t, LevelVillage, region.Level)

	_, err = idx.ByCode("99.99")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_Search(t *testing.T) {
	idx := loadedIndex(t)

	t.Run("case-insensitive substring in load order", func(t *testing.T) {
		results := idx.Search("aceh", 10)
		require.Len(t, results, 3)
		assert.Equal(t, "11", results[0].Code)
		assert.Equal(t, "11.01", results[1].Code)
		assert.Equal(t, "11.02", results[2].Code)
	})

	t.Run("limit caps results", func(t *testing.T) {
		results := idx.Search("aceh", 2)
		assert.Len(t, results, 2)
	})

	t.Run("full path and parent", func(t *testing.T) {
		results := idx.Search("pacar", 10)
		require.Len(t, results, 1)
		assert.Equal(t, "Jawa Tengah > KAB. Pekalongan > Tirto > Pacar", results[0].FullPath)
		require.NotNil(t, results[0].ParentCode)
		assert.Equal(t, "33.26.16", *results[0].ParentCode)
	})

	t.Run("province has no parent", func(t *testing.T) {
		results := idx.Search("jawa tengah", 10)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].ParentCode)
		assert.Equal(t, "Jawa Tengah", results[0].FullPath)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, idx.Search("atlantis", 10))
	})
}

func TestIndex_Describe(t *testing.T) {
	idx := loadedIndex(t)

	result, err := idx.Describe("33.74.01.1001")
	require.NoError(t, err)
	assert.Equal(t, "Jawa Tengah > KOTA Semarang > Semarang Tengah > Miroto", result.FullPath)

	_, err = idx.Describe("00")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"KAB. ACEH SELATAN", "KAB. Aceh Selatan"},
		{"KOTA SEMARANG", "KOTA Semarang"},
		{"JAWA TENGAH", "Jawa Tengah"},
		{"Keude Bakongan", "Keude Bakongan"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, displayName(tc.in), tc.in)
	}
}
