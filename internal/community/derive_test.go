package community

import (
	"reflect"
	"testing"
	"time"

	"github.com/hitoshi/jobscout/internal/model"
)

func post(id int64, views int, createdAt time.Time, country string, tags ...string) model.CommunityPostSummary {
	return model.CommunityPostSummary{
		ID:        id,
		ViewCount: views,
		CreatedAt: createdAt,
		Country:   country,
		Tags:      tags,
	}
}

func ids(posts []model.CommunityPostSummary) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestFilterByTag(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	posts := []model.CommunityPostSummary{
		post(1, 0, base, "", "면접", "비자"),
		post(2, 0, base, "", "급여"),
		post(3, 0, base, "", "비자"),
	}

	got := FilterByTag(posts, "비자")
	if want := []int64{1, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("FilterByTag(비자) = %v, want %v", ids(got), want)
	}

	if got := FilterByTag(posts, ""); len(got) != 3 {
		t.Errorf("FilterByTag(empty) returned %d posts, want 3", len(got))
	}
}

func TestFilterByCountry(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	posts := []model.CommunityPostSummary{
		post(1, 0, base, "일본"),
		post(2, 0, base, "캄보디아"),
		post(3, 0, base, "일본"),
	}

	got := FilterByCountry(posts, "일본")
	if want := []int64{1, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("FilterByCountry(일본) = %v, want %v", ids(got), want)
	}

	if got := FilterByCountry(posts, CountryAll); len(got) != 3 {
		t.Errorf("FilterByCountry(전체) returned %d posts, want 3", len(got))
	}
}

func TestSortPosts(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	posts := []model.CommunityPostSummary{
		post(1, 10, base.Add(1*time.Hour), ""),
		post(2, 30, base.Add(3*time.Hour), ""),
		post(3, 10, base.Add(2*time.Hour), ""),
	}

	tests := []struct {
		order string
		want  []int64
	}{
		// 同閲覧数(1,3)は入力順を保つ
		{SortPopular, []int64{2, 1, 3}},
		{SortRecent, []int64{2, 3, 1}},
		{"unknown", []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			got := SortPosts(posts, tt.order)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("SortPosts(%s) = %v, want %v", tt.order, ids(got), tt.want)
			}
		})
	}

	// 入力スライスは変更されない
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(ids(posts), want) {
		t.Errorf("input mutated: %v", ids(posts))
	}
}

func TestPopularTags(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	posts := []model.CommunityPostSummary{
		post(1, 0, base, "", "비자", "면접"),
		post(2, 0, base, "", "면접", "급여"),
		post(3, 0, base, "", "면접", "비자"),
		post(4, 0, base, "", "숙소"),
	}

	// 면접=3, 비자=2, 급여=1, 숙소=1。同数(급여,숙소)は先に出現した급여が先。
	got := PopularTags(posts, 3)
	if want := []string{"면접", "비자", "급여"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PopularTags() = %v, want %v", got, want)
	}

	if got := PopularTags(posts, 10); len(got) != 4 {
		t.Errorf("PopularTags(n=10) returned %d tags, want 4", len(got))
	}
	if got := PopularTags(nil, 6); len(got) != 0 {
		t.Errorf("PopularTags(nil) = %v, want empty", got)
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "double newline splits",
			content: "첫 번째 단락\n\n두 번째 단락",
			want:    []string{"첫 번째 단락", "두 번째 단락"},
		},
		{
			name:    "single newline stays inside paragraph",
			content: "한 줄\n같은 단락",
			want:    []string{"한 줄\n같은 단락"},
		},
		{
			name:    "three or more newlines are one break",
			content: "a\n\n\n\nb",
			want:    []string{"a", "b"},
		},
		{
			name:    "blank paragraphs dropped",
			content: "\n\na\n\n  \n\nb\n\n",
			want:    []string{"a", "b"},
		},
		{
			name:    "empty content",
			content: "",
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitParagraphs(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSplitParagraphsIdempotent(t *testing.T) {
	content := "a\n\nb\nc\n\nd"
	first := SplitParagraphs(content)
	for _, p := range first {
		again := SplitParagraphs(p)
		if len(again) != 1 || again[0] != p {
			t.Errorf("SplitParagraphs(%q) = %q, want unchanged", p, again)
		}
	}
}
