package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitString(t *testing.T) {
	t.Run("statements_and_lines", func(t *testing.T) {
		text := "DROP TABLE EMP;\n\nCREATE TABLE EMP (\n  ID NUMBER\n);\nSET DEFINE OFF;\n"
		got := SplitString(text)
		assert.Equal(t, []Statement{
			{Text: "DROP TABLE EMP", Line: 1},
			{Text: "CREATE TABLE EMP (\n  ID NUMBER\n)", Line: 3},
			{Text: "SET DEFINE OFF", Line: 6},
		}, got)
	})

	t.Run("terminator_inside_literal", func(t *testing.T) {
		got := SplitString(`Insert Into T ("A") VALUES ('x;y');Insert Into T ("A") VALUES ('it''s;');`)
		require.Len(t, got, 2)
		assert.Equal(t, `Insert Into T ("A") VALUES ('x;y')`, got[0].Text)
		assert.Equal(t, `Insert Into T ("A") VALUES ('it''s;')`, got[1].Text)
	})

	t.Run("terminator_inside_identifier", func(t *testing.T) {
		got := SplitString(`CREATE TABLE "A;B" (ID NUMBER);`)
		require.Len(t, got, 1)
		assert.Equal(t, `CREATE TABLE "A;B" (ID NUMBER)`, got[0].Text)
	})

	t.Run("unterminated_tail", func(t *testing.T) {
		got := SplitString("SET DEFINE OFF;\nSELECT 1 FROM DUAL\n")
		require.Len(t, got, 2)
		assert.Equal(t, "SELECT 1 FROM DUAL", got[1].Text)
		assert.Equal(t, 2, got[1].Line)
	})

	t.Run("blank_statements_skipped", func(t *testing.T) {
		assert.Empty(t, SplitString(" ;\n;\n"))
	})
}

func TestSplitReader(t *testing.T) {
	got, err := Split(strings.NewReader("DROP TABLE EMP;\nDROP TABLE DEPT;"))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestParseInsert(t *testing.T) {
	t.Run("generated_form", func(t *testing.T) {
		ins, err := ParseInsert(`Insert Into T ("ID","NAME") VALUES (1,'abc');`)
		require.NoError(t, err)
		assert.Equal(t, Insert{Table: "T", Columns: []string{"ID", "NAME"}, Values: []string{"1", "'abc'"}}, ins)
	})

	t.Run("nested_and_quoted_values", func(t *testing.T) {
		ins, err := ParseInsert(`INSERT INTO HR.EMP ("A","B","C") VALUES ('x, y',TO_DATE('2024-01-02 03:04:05','YYYY-MM-DD HH24:MI:SS'),HEXTORAW('0AFF'))`)
		require.NoError(t, err)
		assert.Equal(t, "HR.EMP", ins.Table)
		assert.Equal(t, []string{
			"'x, y'",
			"TO_DATE('2024-01-02 03:04:05','YYYY-MM-DD HH24:MI:SS')",
			"HEXTORAW('0AFF')",
		}, ins.Values)
	})

	t.Run("empty_value_list", func(t *testing.T) {
		ins, err := ParseInsert(`Insert Into T ("ID") VALUES ()`)
		require.NoError(t, err)
		assert.Empty(t, ins.Values)
	})

	t.Run("not_an_insert", func(t *testing.T) {
		_, err := ParseInsert("DROP TABLE T")
		assert.True(t, errors.Is(err, ErrNotInsert))
	})

	t.Run("missing_values_keyword", func(t *testing.T) {
		_, err := ParseInsert(`Insert Into T ("ID") (1)`)
		assert.ErrorIs(t, err, ErrNotInsert)
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, err := ParseInsert(`Insert Into T ("ID") VALUES (1`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unbalanced parentheses")
	})

	t.Run("trailing_text", func(t *testing.T) {
		_, err := ParseInsert(`Insert Into T ("ID") VALUES (1) RETURNING ID`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected text")
	})
}

func TestUnquote(t *testing.T) {
	got, ok := Unquote("'it''s'")
	require.True(t, ok)
	assert.Equal(t, "it's", got)

	got, ok = Unquote("''")
	require.True(t, ok)
	assert.Empty(t, got)

	_, ok = Unquote("42")
	assert.False(t, ok)
}

func TestDecodeHexRaw(t *testing.T) {
	data, err := DecodeHexRaw("HEXTORAW('0AFF')")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0xFF}, data)

	_, err = DecodeHexRaw("'0AFF'")
	assert.Error(t, err)

	_, err = DecodeHexRaw("HEXTORAW(0AFF)")
	assert.Error(t, err)

	_, err = DecodeHexRaw("HEXTORAW('0G')")
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	t.Run("matched_tables", func(t *testing.T) {
		report := Analyze(SplitString(`DROP TABLE HR.EMP;
  CREATE TABLE "HR"."EMP" ("ID" NUMBER)
;

SET DEFINE OFF;
Insert Into HR.EMP ("ID") VALUES (1);
Insert Into HR.EMP ("ID") VALUES (2);
`))
		assert.True(t, report.Valid)
		assert.Equal(t, 5, report.Statements)
		require.Len(t, report.Tables, 1)
		assert.Equal(t, TableReport{Table: "HR.EMP", Dropped: true, HasDDL: true, Inserts: 2}, report.Tables[0])
		assert.Empty(t, report.Problems)
	})

	t.Run("value_count_mismatch", func(t *testing.T) {
		report := Analyze(SplitString(`CREATE TABLE T (ID NUMBER, NAME VARCHAR2(10));
SET DEFINE OFF;
Insert Into T ("ID","NAME") VALUES (1);
`))
		assert.False(t, report.Valid)
		require.Len(t, report.Tables, 1)
		assert.Equal(t, 1, report.Tables[0].Mismatched)
		assert.Equal(t, []string{"line 3: insert into T has 2 columns and 1 values"}, report.Problems)
	})

	t.Run("malformed_insert", func(t *testing.T) {
		report := Analyze(SplitString("CREATE TABLE T (ID NUMBER);\nInsert Into T VALUES (1);\n"))
		assert.False(t, report.Valid)
		require.Len(t, report.Problems, 1)
		assert.Contains(t, report.Problems[0], "line 2:")
	})

	t.Run("stopped_dump", func(t *testing.T) {
		report := Analyze(SplitString("CREATE TABLE T (ID NUMBER);\nSET DEFINE OFF;\nInsert Into T (\"ID\") VALUES (1);\n" +
			IncompleteMarker + " T\n"))
		assert.False(t, report.Valid)
		require.Len(t, report.Tables, 1)
		assert.Equal(t, 1, report.Tables[0].Inserts)
		assert.Equal(t, []string{"line 4: dump stopped at table T"}, report.Problems)
	})

	t.Run("rows_without_ddl", func(t *testing.T) {
		report := Analyze(SplitString(`Insert Into T ("ID") VALUES (1);`))
		assert.False(t, report.Valid)
		assert.Equal(t, []string{"table T has rows but no CREATE TABLE"}, report.Problems)
	})
}
