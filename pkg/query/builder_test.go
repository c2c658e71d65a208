package query_test

import (
	"testing"

	"github.com/JaimeStill/tribunal/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "precedents", "p").
		Project("id", "id").
		Project("outcome", "outcome").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapTable(t *testing.T) {
	p := testProjection()
	got := p.Table()
	want := "public.precedents p"
	if got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "p" {
		t.Errorf("Alias() = %q, want %q", got, "p")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "p.id, p.outcome, p.created_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnList(t *testing.T) {
	p := testProjection()
	got := p.ColumnList()
	if len(got) != 3 {
		t.Fatalf("ColumnList() length = %d, want 3", len(got))
	}
	want := []string{"p.id", "p.outcome", "p.created_at"}
	for i, col := range got {
		if col != want[i] {
			t.Errorf("ColumnList()[%d] = %q, want %q", i, col, want[i])
		}
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "outcome", "p.outcome"},
		{"mapped camel", "createdAt", "p.created_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "name",
			want:  []query.SortField{{Field: "name", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-createdAt",
			want:  []query.SortField{{Field: "createdAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "name,-createdAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " name , -createdAt ",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "name,,createdAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.precedents p"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "createdAt", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p ORDER BY p.created_at DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderBuildSingleOrNull(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("outcome", "approve")
	sql, args := b.BuildSingleOrNull()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome = $1 LIMIT 1"
	if sql != wantSQL {
		t.Errorf("BuildSingleOrNull() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "approve" {
		t.Errorf("BuildSingleOrNull() args = %v, want [approve]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("outcome", "approve")
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "approve" {
		t.Errorf("args = %v, want [approve]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("outcome", nil)
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("outcome", ptr("test"))
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%test%" {
		t.Errorf("args = %v, want [%%test%%]", args)
	}
}

func TestBuilderWhereContainsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("outcome", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("outcome", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereIn(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereIn("id", []any{"a", "b", "c"})
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.id IN ($1, $2, $3)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 3 {
		t.Errorf("args length = %d, want 3", len(args))
	}
}

func TestBuilderWhereInEmptySkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereIn("id", []any{})
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereNullable(t *testing.T) {
	t.Run("nil value generates IS NULL", func(t *testing.T) {
		p := testProjection()
		b := query.NewBuilder(p)
		b.WhereNullable("outcome", nil)
		sql, args := b.Build()

		wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome IS NULL"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("non-nil value generates equals", func(t *testing.T) {
		p := testProjection()
		b := query.NewBuilder(p)
		b.WhereNullable("outcome", "approve")
		sql, args := b.Build()

		wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 || args[0] != "approve" {
			t.Errorf("args = %v, want [approve]", args)
		}
	})
}

func TestBuilderWhereSearch(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(ptr("test"), "outcome", "id")
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE (p.outcome ILIKE $1 OR p.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%test%" || args[1] != "%test%" {
		t.Errorf("args = %v, want [%%test%% %%test%%]", args)
	}
}

func TestBuilderWhereSearchNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(nil, "outcome")
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("outcome", "approve")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome = $1 AND p.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
	if args[0] != "approve" {
		t.Errorf("args[0] = %v, want test.pdf", args[0])
	}
	if args[1] != "%abc%" {
		t.Errorf("args[1] = %v, want %%abc%%", args[1])
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "createdAt", Descending: true},
		{Field: "outcome", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p ORDER BY p.created_at DESC, p.outcome ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "createdAt", Descending: true})
	sql, _ := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p ORDER BY p.created_at DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildCountWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("outcome", "approve")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.precedents p WHERE p.outcome = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "approve" {
		t.Errorf("args = %v, want [approve]", args)
	}
}

func TestBuilderBuildPageWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "id"})
	b.WhereContains("outcome", ptr("reject"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.outcome ILIKE $1 ORDER BY p.id ASC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%reject%" {
		t.Errorf("args = %v, want [%%reject%%]", args)
	}
}

func TestBuilderWhereRange(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereGTE("createdAt", "2026-01-01")
	b.WhereLTE("createdAt", "2026-02-01")
	sql, args := b.Build()

	wantSQL := "SELECT p.id, p.outcome, p.created_at FROM public.precedents p WHERE p.created_at >= $1 AND p.created_at <= $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "2026-01-01" || args[1] != "2026-02-01" {
		t.Errorf("args = %v, want [2026-01-01 2026-02-01]", args)
	}
}

func TestBuilderWhereRangeNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereGTE("createdAt", nil)
	b.WhereLTE("createdAt", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func joinedProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "precedents", "p").
		Project("id", "id").
		ProjectAs("a.content_hash", "contentHash").
		Join("public", "audit_log", "a", "JOIN", "a.audit_id = p.audit_id")
}

func TestProjectionMapFrom(t *testing.T) {
	p := joinedProjection()
	want := "public.precedents p JOIN public.audit_log a ON a.audit_id = p.audit_id"
	if got := p.From(); got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapFromNoJoins(t *testing.T) {
	p := testProjection()
	if got := p.From(); got != p.Table() {
		t.Errorf("From() = %q, want %q", got, p.Table())
	}
}

func TestProjectionMapProjectAs(t *testing.T) {
	p := joinedProjection()

	if got := p.Columns(); got != "p.id, a.content_hash" {
		t.Errorf("Columns() = %q, want %q", got, "p.id, a.content_hash")
	}
	if got := p.Column("contentHash"); got != "a.content_hash" {
		t.Errorf("Column() = %q, want %q", got, "a.content_hash")
	}
}

func TestBuilderBuildWithJoin(t *testing.T) {
	b := query.NewBuilder(joinedProjection())
	b.WhereEquals("contentHash", "sha256:abc")
	sql, args := b.Build()

	wantSQL := "SELECT p.id, a.content_hash FROM public.precedents p JOIN public.audit_log a ON a.audit_id = p.audit_id WHERE a.content_hash = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "sha256:abc" {
		t.Errorf("args = %v, want [sha256:abc]", args)
	}
}
