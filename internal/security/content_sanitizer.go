package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer は外部由来テキストのサニタイズ機能を提供する。
// コミュニティ投稿の本文とRSSフィードの見出しは外部システムから届く
// 信頼できない文字列であり、画面に出す前にマークアップを取り除く。
type ContentSanitizer interface {
	// SanitizeText は入力から全てのHTMLタグを除去したプレーンテキストを返す。
	// 実体参照はデコードして返す。同一入力に対して常に同一出力を返す。
	SanitizeText(s string) string
}

// contentSanitizer はContentSanitizerの実装。
// bluemondayの全タグ除去ポリシーを保持し、スレッドセーフに動作する。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerの新しいインスタンスを生成する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は全てのタグを除去したプレーンテキストを返す。
// bluemondayはタグ除去後のテキストを実体参照としてエスケープするため、
// 表示用の生テキストに戻してから返す。エスケープは描画テンプレート側で行う。
func (s *contentSanitizer) SanitizeText(text string) string {
	stripped := s.policy.Sanitize(text)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
