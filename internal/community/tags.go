package community

import "strings"

// TagSet はタグ入力欄の編集状態。小文字に正規化した順序付き集合で、
// 重複と上限超過の追加は黙って無視する。
type TagSet struct {
	max  int
	tags []string
}

// NewTagSet は上限max件のタグ集合を生成する。
func NewTagSet(max int) *TagSet {
	return &TagSet{max: max}
}

// Add はタグを正規化して追加する。追加されたらtrueを返す。
// 空文字・重複・上限到達の場合は何もせずfalseを返す。
func (s *TagSet) Add(raw string) bool {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" || len(s.tags) >= s.max {
		return false
	}
	for _, t := range s.tags {
		if t == tag {
			return false
		}
	}
	s.tags = append(s.tags, tag)
	return true
}

// AddAll は複数のタグを順に追加する。
func (s *TagSet) AddAll(raws []string) {
	for _, r := range raws {
		s.Add(r)
	}
}

// Remove は指定タグを取り除く。存在しない場合は何もしない。
func (s *TagSet) Remove(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return
		}
	}
}

// Tags は現在のタグ一覧のコピーを追加順で返す。
func (s *TagSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len は現在のタグ数を返す。
func (s *TagSet) Len() int {
	return len(s.tags)
}

// ParseTagInput はカンマ・改行区切りのタグ入力を個々のタグ候補に分解する。
// 正規化と重複排除はTagSet側で行う。
func ParseTagInput(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
