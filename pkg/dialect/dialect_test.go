package dialect

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

func contactsTable() *meta.Table {
	return &meta.Table{
		Name: "contacts",
		Columns: []meta.Column{
			meta.NewColumn("id", meta.TypeInteger),
			meta.NewColumn("name", meta.TypeVarChar),
			meta.NewColumn("email", meta.TypeChar),
			meta.NewColumn("bio", meta.TypeClob),
			meta.NewColumn("location", meta.TypeOther),
		},
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "`a``b`", NewMySQL().Quote("a`b"))
	assert.Equal(t, `"a""b"`, NewPostgres().Quote(`a"b`))
	assert.Equal(t, `"name"`, NewGeneric().Quote("name"))
	assert.Equal(t, "'it''s'", QuoteString("it's"))
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		input    string
		expected string
	}{
		{NewMySQL(), "it's", `'it''s'`},
		{NewMySQL(), `x\' OR 1=1 -- `, `'x\\'' OR 1=1 -- '`},
		{NewMySQL(), `C:\tmp`, `'C:\\tmp'`},
		{NewPostgres(), `x\' OR 1=1 -- `, `'x\'' OR 1=1 -- '`},
		{NewSQLite(), `C:\tmp`, `'C:\tmp'`},
		{NewGeneric(), "it's", `'it''s'`},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.Name()+"/"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.QuoteLiteral(tt.input))
		})
	}
}

func TestPagingSQL(t *testing.T) {
	orders := []models.Order{models.Desc("id"), {Name: "name", Type: "asc"}}

	tests := []struct {
		dialect  Dialect
		expected string
	}{
		{NewMySQL(), "SELECT * FROM t ORDER BY `id` DESC, `name` ASC LIMIT 20, 10"},
		{NewPostgres(), `SELECT * FROM t ORDER BY "id" DESC, "name" ASC LIMIT 10 OFFSET 20`},
		{NewSQLite(), `SELECT * FROM t ORDER BY "id" DESC, "name" ASC LIMIT 10 OFFSET 20`},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			assert.True(t, tt.dialect.SupportsPaging())
			paged := tt.dialect.PagingSQL(query.Of("SELECT * FROM t WHERE a=?", 1), orders, 21, 10)
			require.NotNil(t, paged)
			assert.Contains(t, paged.Text(), "WHERE a=?")
			assert.Equal(t, []interface{}{1}, paged.Params())
		})
	}

	for _, tt := range tests {
		paged := tt.dialect.PagingSQL(query.Of("SELECT * FROM t"), orders, 21, 10)
		assert.Equal(t, tt.expected, paged.Text())
	}

	g := NewGeneric()
	assert.False(t, g.SupportsPaging())
	assert.Nil(t, g.PagingSQL(query.Of("SELECT * FROM t"), orders, 1, 10))
}

func TestOrderSQL(t *testing.T) {
	q := query.Of("SELECT * FROM t")
	assert.Same(t, q, NewMySQL().OrderSQL(q, nil))
	assert.Equal(t, "SELECT * FROM t ORDER BY `id` ASC", NewMySQL().OrderSQL(q, []models.Order{models.Asc("id")}).Text())
}

func TestKeywordCondition(t *testing.T) {
	d := NewMySQL()
	table := contactsTable()

	cond := d.KeywordCondition(table, &models.Query{Keyword: "ann"}, true)
	require.NotNil(t, cond)
	assert.Equal(t, "`name` LIKE ? OR `email` LIKE ?", cond.Text())
	assert.Equal(t, []interface{}{"%ann%", "%ann%"}, cond.Params())

	inline := d.KeywordCondition(table, &models.Query{Keyword: "o'b"}, false)
	assert.Equal(t, "`name` LIKE '%o''b%' OR `email` LIKE '%o''b%'", inline.Text())
	assert.Empty(t, inline.Params())

	escaped := d.KeywordCondition(table, &models.Query{Keyword: `x\' OR 1=1 -- `}, false)
	assert.Equal(t, "`name` LIKE '%x\\\\'' OR 1=1 --%' OR `email` LIKE '%x\\\\'' OR 1=1 --%'", escaped.Text())

	assert.Nil(t, d.KeywordCondition(table, &models.Query{}, true))
	assert.Nil(t, d.KeywordCondition(&meta.Table{Name: "n", Columns: []meta.Column{meta.NewColumn("id", meta.TypeInteger)}},
		&models.Query{Keyword: "x"}, true))
}

func TestReturningSQL(t *testing.T) {
	var d Dialect = NewPostgres()
	rd, ok := d.(ReturningDialect)
	require.True(t, ok)
	assert.Equal(t, ` RETURNING "id", "seq"`, rd.ReturningSQL([]meta.Column{meta.NewColumn("id", meta.TypeInteger), meta.NewColumn("seq", meta.TypeInteger)}))

	_, ok = Dialect(NewMySQL()).(ReturningDialect)
	assert.False(t, ok)
}

func TestByName(t *testing.T) {
	for name, expected := range map[string]string{
		"mysql": "mysql", "TiDB": "mysql", "postgresql": "postgres", "sqlite3": "sqlite", "": "generic",
	} {
		d, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, expected, d.Name())
	}

	_, err := ByName("oracle")
	assert.Error(t, err)
}

type driverHolder struct{}

func (driverHolder) Driver() interface{} { return nil }

func TestSource(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSource("postgres")
	require.NoError(t, err)
	d, err := s.GetDialect(db)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = NewSource("oracle")
	assert.Error(t, err)

	detecting, err := NewSource("")
	require.NoError(t, err)
	_, err = detecting.GetDialect(db)
	assert.Error(t, err, "sqlmock driver is not recognized")

	detecting.Fallback = NewGeneric()
	d, err = detecting.GetDialect(db)
	require.NoError(t, err)
	assert.Equal(t, "generic", d.Name())
}

func TestDetect(t *testing.T) {
	assert.Nil(t, Detect(nil))
	assert.Nil(t, Detect(driverHolder{}))

	// sql.Open does not connect
	db, err := sql.Open("mysql", "user:pw@tcp(127.0.0.1:3306)/crm")
	require.NoError(t, err)
	defer db.Close()

	d := Detect(db)
	require.NotNil(t, d)
	assert.Equal(t, "mysql", d.Name())

	s := &DetectingSource{Fallback: NewGeneric()}
	d, err = s.GetDialect(db)
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())
}
