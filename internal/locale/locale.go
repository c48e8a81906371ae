// Package locale 语言解析与翻译查找
package locale

import (
	"fmt"
	"strings"
)

// Language 支持的语言代码
type Language string

const (
	English Language = "en"
	Russian Language = "ru"
	Turkish Language = "tr"
	Thai    Language = "th"
	Arabic  Language = "ar"
	Chinese Language = "zh"
)

// Default 默认语言
const Default = English

// Languages 所有支持的语言（顺序固定）
var Languages = []Language{English, Russian, Turkish, Thai, Arabic, Chinese}

// Dir 文本方向
type Dir string

const (
	LTR Dir = "ltr"
	RTL Dir = "rtl"
)

// Parse 解析语言代码，仅接受受支持的语言
func Parse(code string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	for _, l := range Languages {
		if l == lang {
			return l, true
		}
	}
	return "", false
}

// Dir 返回语言的文本方向
func (l Language) Dir() Dir {
	if l == Arabic {
		return RTL
	}
	return LTR
}

func (l Language) String() string {
	return string(l)
}

// Resolver 某一语言下的翻译查找
type Resolver struct {
	Lang Language `json:"language"`
	Dir  Dir      `json:"dir"`
	tbl  *table
}

// Resolve 返回语言对应的 Resolver；不支持的语言回退到英文
func Resolve(lang Language) Resolver {
	tbl, ok := catalog[lang]
	if !ok {
		lang = Default
		tbl = catalog[Default]
	}
	return Resolver{Lang: lang, Dir: lang.Dir(), tbl: tbl}
}

// T 查找翻译文本
func (r Resolver) T(key Key) string {
	if r.tbl == nil || key < 0 || key >= keyCount {
		panic(fmt.Sprintf("locale: invalid key %d", key))
	}
	return r.tbl[key]
}
