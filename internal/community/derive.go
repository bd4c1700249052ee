// Package community はコミュニティ投稿の一覧・詳細・作成に関する
// 派生ビュー計算とサービスを提供する。
// 投稿データはバックエンドが正本であり、このパッケージは取得結果の
// 絞り込み・並べ替え・集計のみを行う。
package community

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hitoshi/jobscout/internal/model"
)

// SortPopular とSortRecent は一覧の並び順の識別子。
const (
	SortPopular = "popular"
	SortRecent  = "recent"
)

// Countries は国フィルタの選択肢。先頭の「전체」は絞り込みなしを意味する。
var Countries = []string{"전체", "캄보디아", "일본", "싱가포르", "미국", "영국"}

// CountryAll は絞り込みなしを表す国フィルタ値。
const CountryAll = "전체"

// FilterByTag は指定タグを含む投稿のみを返す。タグが空なら全件を返す。
// 入力スライスは変更しない。
func FilterByTag(posts []model.CommunityPostSummary, tag string) []model.CommunityPostSummary {
	if tag == "" {
		return posts
	}
	filtered := make([]model.CommunityPostSummary, 0, len(posts))
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// FilterByCountry は指定の国の投稿のみを返す。「전체」または空なら全件を返す。
func FilterByCountry(posts []model.CommunityPostSummary, country string) []model.CommunityPostSummary {
	if country == "" || country == CountryAll {
		return posts
	}
	filtered := make([]model.CommunityPostSummary, 0, len(posts))
	for _, p := range posts {
		if p.Country == country {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SortPosts は並び順識別子に従って投稿を並べ替えた新しいスライスを返す。
// popular: 閲覧数の降順。recent: 作成日時の降順。
// 同値の場合は入力順を保つ。未知の識別子は入力順のまま返す。
func SortPosts(posts []model.CommunityPostSummary, order string) []model.CommunityPostSummary {
	sorted := make([]model.CommunityPostSummary, len(posts))
	copy(sorted, posts)

	switch order {
	case SortPopular:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ViewCount > sorted[j].ViewCount
		})
	case SortRecent:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}

// PopularTags は全投稿のタグを出現回数で集計し、上位n件を返す。
// 同数の場合は最初に出現したタグを優先する。
func PopularTags(posts []model.CommunityPostSummary, n int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, seen := counts[t]; !seen {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}

// paragraphBreak は段落区切り。連続する2つ以上の改行のみを区切りとして扱い、
// 単独の改行は段落内の折り返しとして保持する。
var paragraphBreak = regexp.MustCompile(`\n{2,}|\r{2,}`)

// SplitParagraphs は本文を段落に分割する。
// 前後の空白を取り除き、空の段落は結果に含めない。
func SplitParagraphs(content string) []string {
	parts := paragraphBreak.Split(content, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
