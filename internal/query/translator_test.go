package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var carFields = AllowFields("id", "name", "price", "created_at")

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		check   func(t *testing.T, opts *Options)
		wantErr bool
	}{
		{
			name:   "defaults on empty query",
			rawURL: "",
			check: func(t *testing.T, opts *Options) {
				assert.Equal(t, DefaultPage, opts.Page)
				assert.Equal(t, DefaultLimit, opts.Limit)
				assert.Empty(t, opts.Filters)
				assert.Empty(t, opts.Select)
				assert.Empty(t, opts.Sort)
			},
		},
		{
			name:   "plain key is equality",
			rawURL: "name=Downtown",
			check: func(t *testing.T, opts *Options) {
				require.Len(t, opts.Filters, 1)
				assert.Equal(t, Filter{Field: "name", Op: OpEq, Value: "Downtown"}, opts.Filters[0])
			},
		},
		{
			name:   "range operator suffixes",
			rawURL: "price%5Bgte%5D=50&price%5Blte%5D=100",
			check: func(t *testing.T, opts *Options) {
				require.Len(t, opts.Filters, 2)
				ops := map[Operator]string{}
				for _, f := range opts.Filters {
					assert.Equal(t, "price", f.Field)
					ops[f.Op] = f.Value
				}
				assert.Equal(t, map[Operator]string{OpGte: "50", OpLte: "100"}, ops)
			},
		},
		{
			name:   "in operator keeps comma list",
			rawURL: "name%5Bin%5D=a,b,c",
			check: func(t *testing.T, opts *Options) {
				require.Len(t, opts.Filters, 1)
				assert.Equal(t, OpIn, opts.Filters[0].Op)
				assert.Equal(t, "a,b,c", opts.Filters[0].Value)
			},
		},
		{
			name:    "unknown operator rejected",
			rawURL:  "price%5Bregex%5D=1",
			wantErr: true,
		},
		{
			name:    "field outside allow-list rejected",
			rawURL:  "password=x",
			wantErr: true,
		},
		{
			name:   "select splits into projection",
			rawURL: "select=name,price",
			check: func(t *testing.T, opts *Options) {
				assert.Equal(t, []string{"name", "price"}, opts.Select)
			},
		},
		{
			name:    "select outside allow-list rejected",
			rawURL:  "select=name,secret",
			wantErr: true,
		},
		{
			name:   "sort directions from negation marker",
			rawURL: "sort=-price,name",
			check: func(t *testing.T, opts *Options) {
				assert.Equal(t, []SortField{{Field: "price", Desc: true}, {Field: "name", Desc: false}}, opts.Sort)
			},
		},
		{
			name:    "sort outside allow-list rejected",
			rawURL:  "sort=-secret",
			wantErr: true,
		},
		{
			name:   "malformed page and limit fall back to defaults",
			rawURL: "page=abc&limit=-5",
			check: func(t *testing.T, opts *Options) {
				assert.Equal(t, DefaultPage, opts.Page)
				assert.Equal(t, DefaultLimit, opts.Limit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			require.NoError(t, err)

			opts, err := Parse(values, carFields)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestParseDoesNotMutateInput(t *testing.T) {
	values, err := url.ParseQuery("price%5Bgte%5D=50&select=name&sort=-price&page=2&limit=10")
	require.NoError(t, err)
	snapshot, err := url.ParseQuery(values.Encode())
	require.NoError(t, err)

	_, err = Parse(values, carFields)
	require.NoError(t, err)

	assert.Equal(t, snapshot, values)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
	}{
		{
			name: "middle page has both neighbours",
			page: 2, limit: 10, total: 25,
			wantNext: &PageRef{Page: 3, Limit: 10},
			wantPrev: &PageRef{Page: 1, Limit: 10},
		},
		{
			name: "first page has no prev",
			page: 1, limit: 10, total: 25,
			wantNext: &PageRef{Page: 2, Limit: 10},
		},
		{
			name: "last page has no next",
			page: 3, limit: 10, total: 25,
			wantPrev: &PageRef{Page: 2, Limit: 10},
		},
		{
			name: "single page has neither",
			page: 1, limit: 25, total: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &Options{Page: tt.page, Limit: tt.limit}
			p := opts.Paginate(tt.total)
			assert.Equal(t, tt.wantNext, p.Next)
			assert.Equal(t, tt.wantPrev, p.Prev)
		})
	}
}

type car struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	Price     int
	CreatedAt time.Time
}

func newCarDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&car{}))
	return db
}

func TestScopeRangeFilters(t *testing.T) {
	db := newCarDB(t)
	for _, price := range []int{10, 50, 75, 100, 150} {
		require.NoError(t, db.Create(&car{Price: price}).Error)
	}

	values, err := url.ParseQuery("price%5Bgte%5D=50&price%5Blte%5D=100")
	require.NoError(t, err)
	opts, err := Parse(values, carFields)
	require.NoError(t, err)

	var cars []car
	require.NoError(t, db.Scopes(opts.Scope()).Find(&cars).Error)

	require.Len(t, cars, 3)
	for _, c := range cars {
		assert.GreaterOrEqual(t, c.Price, 50)
		assert.LessOrEqual(t, c.Price, 100)
	}
}

func TestWindowPagination(t *testing.T) {
	db := newCarDB(t)
	for i := 1; i <= 25; i++ {
		require.NoError(t, db.Create(&car{Price: i}).Error)
	}

	values, err := url.ParseQuery("page=2&limit=10&sort=price")
	require.NoError(t, err)
	opts, err := Parse(values, carFields)
	require.NoError(t, err)

	var total int64
	require.NoError(t, db.Model(&car{}).Scopes(opts.Scope()).Count(&total).Error)

	var cars []car
	require.NoError(t, db.Scopes(opts.Scope(), opts.Window()).Find(&cars).Error)

	require.Len(t, cars, 10)
	assert.Equal(t, 11, cars[0].Price)
	assert.Equal(t, 20, cars[9].Price)

	p := opts.Paginate(total)
	assert.Equal(t, &PageRef{Page: 3, Limit: 10}, p.Next)
	assert.Equal(t, &PageRef{Page: 1, Limit: 10}, p.Prev)
}
