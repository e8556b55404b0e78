package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/entref/internal/domain/entities"
)

// sample is a slice of the real definitions, including pairs and shared first codepoints.
func sample() map[string]entities.RawReference {
	return raw(map[string][]int{
		"&AElig":  {198},
		"&AElig;": {198},
		"&AMP":    {38},
		"&AMP;":   {38},
		"&amp":    {38},
		"&amp;":   {38},
		"&acE;":   {8766, 819},
		"&ac;":    {8766},
		"&lt":     {60},
		"&lt;":    {60},
		"&LT;":    {60},
		"&nvlt;":  {60, 8402},
		"&nvgt;":  {62, 8402},
		"&gt;":    {62},
		"&sub;":   {8834},
		"&acute":  {180},
		"&acute;": {180},
		"&nbsp;":  {160},

		"&NotSubset;":        {8834, 8402},
		"&NonBreakingSpace;": {160},
	})
}

func TestCompile_SpecExamples(t *testing.T) {
	t.Run("same name in both groups", func(t *testing.T) {
		tables, err := Compile(raw(map[string][]int{"&amp": {38}, "&amp;": {38}}))
		require.NoError(t, err)

		require.Equal(t, 1, tables.Base.Len())
		require.Equal(t, 1, tables.Full.Len())

		base := tables.Base.Records[0]
		assert.Equal(t, "amp", base.Name)
		assert.Equal(t, []rune{38}, base.Codepoints)
		assert.Equal(t, 0, base.CodeIndex)

		fullRec := tables.Full.Records[0]
		assert.Equal(t, "amp", fullRec.Name)
		assert.Equal(t, 0, fullRec.CodeIndex)
	})

	t.Run("two codepoint reference", func(t *testing.T) {
		tables, err := Compile(raw(map[string][]int{"&acE;": {8766, 819}}))
		require.NoError(t, err)

		assert.Equal(t, 0, tables.Base.Len())
		require.Equal(t, 1, tables.Full.Len())
		assert.Equal(t, "acE", tables.Full.Records[0].Name)
		assert.Equal(t, []rune{8766, 819}, tables.Full.Records[0].Codepoints)
		assert.Equal(t, 0, tables.Full.Records[0].CodeIndex)
	})

	t.Run("shorter sequence indexed first", func(t *testing.T) {
		tables, err := Compile(raw(map[string][]int{
			"&apair;":   {120, 824},
			"&bsingle;": {120},
		}))
		require.NoError(t, err)

		require.Equal(t, []string{"apair", "bsingle"}, names(tables.Full.Records))
		assert.Equal(t, 1, tables.Full.Records[0].CodeIndex)
		assert.Equal(t, 0, tables.Full.Records[1].CodeIndex)
	})
}

func TestCompile_Properties(t *testing.T) {
	tables, err := Compile(sample())
	require.NoError(t, err)

	assert.Equal(t, len(sample()), tables.Base.Len()+tables.Full.Len(), "every reference lands in exactly one group")

	for _, table := range []entities.Table{tables.Base, tables.Full} {
		t.Run(string(table.Group), func(t *testing.T) {
			for i := 1; i < table.Len(); i++ {
				assert.Negative(t, CompareByName(table.Records[i-1], table.Records[i]),
					"%s should sort before %s", table.Records[i-1].Name, table.Records[i].Name)
			}

			seen := make(map[int]bool, table.Len())
			for _, r := range table.Records {
				assert.Equal(t, table.Group, r.Group)
				assert.GreaterOrEqual(t, r.CodeIndex, 0)
				assert.Less(t, r.CodeIndex, table.Len())
				assert.False(t, seen[r.CodeIndex], "code index %d assigned twice", r.CodeIndex)
				seen[r.CodeIndex] = true
			}

			byCode := make([]*entities.Record, table.Len())
			for _, r := range table.Records {
				byCode[r.CodeIndex] = r
			}
			for i := 1; i < len(byCode); i++ {
				assert.LessOrEqual(t, CompareByCode(byCode[i-1], byCode[i]), 0)
			}

			assert.NoError(t, VerifyTable(table))
		})
	}
}

func TestCompile_FullOrders(t *testing.T) {
	tables, err := Compile(sample())
	require.NoError(t, err)

	assert.Equal(t, []string{"AElig", "AMP", "acute", "amp", "lt"}, names(tables.Base.Records))

	byCode := make([]string, tables.Full.Len())
	for _, r := range tables.Full.Records {
		byCode[r.CodeIndex] = r.Name
	}
	assert.Equal(t, []string{
		"AMP", "amp", // 38, name order kept
		"LT", "lt", // 60
		"nvlt",                     // 60, 8402
		"gt",                       // 62
		"nvgt",                     // 62, 8402
		"NonBreakingSpace", "nbsp", // 160
		"acute",                    // 180
		"AElig",                    // 198
		"ac",                       // 8766
		"acE",                      // 8766, 819
		"sub",                      // 8834
		"NotSubset",                // 8834, 8402
	}, byCode)
}

func TestCompile_Deterministic(t *testing.T) {
	first, err := Compile(sample())
	require.NoError(t, err)

	for range 5 {
		again, err := Compile(sample())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompile_Empty(t *testing.T) {
	tables, err := Compile(map[string]entities.RawReference{})
	require.NoError(t, err)
	assert.Equal(t, 0, tables.Base.Len())
	assert.Equal(t, 0, tables.Full.Len())
	assert.Equal(t, entities.GroupBase, tables.Base.Group)
	assert.Equal(t, entities.GroupFull, tables.Full.Group)
}

func TestCompile_Malformed(t *testing.T) {
	input := sample()
	input["nomarker;"] = entities.RawReference{Codepoints: []int{1}}

	tables, err := Compile(input)
	require.Error(t, err)
	assert.Nil(t, tables)
	assert.ErrorIs(t, err, entities.ErrMalformedInput)
}

func TestAssignCodeIndex_Idempotent(t *testing.T) {
	byName := []*entities.Record{
		fullRecord("gt", 62),
		fullRecord("lt", 60),
	}
	byCode := SortByCode(byName)

	AssignCodeIndex(byCode)
	assert.Equal(t, 1, byName[0].CodeIndex)
	assert.Equal(t, 0, byName[1].CodeIndex)

	AssignCodeIndex(byCode)
	assert.Equal(t, 1, byName[0].CodeIndex)
	assert.Equal(t, 0, byName[1].CodeIndex)
}
