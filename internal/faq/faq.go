package faq

import (
	"regexp"
	"strings"

	"github.com/thaiturk/portal-go/internal/locale"
)

// Topic FAQ 主题
type Topic string

const (
	TopicHair        Topic = "hair"
	TopicRhinoplasty Topic = "rhinoplasty"
	TopicDental      Topic = "dental"
	TopicHospitals   Topic = "hospitals"
	TopicBooking     Topic = "booking"
	TopicPrice       Topic = "price"
)

// Table 主题 -> 回答（markdown）
type Table map[Topic]string

type rule struct {
	topic   Topic
	pattern *regexp.Regexp
}

// 顺序即优先级，第一个命中的主题生效
var rules = []rule{
	{TopicHair, regexp.MustCompile(`hair|saç|волос|шевелюр|植发|شعر|ผม`)},
	{TopicRhinoplasty, regexp.MustCompile(`rhino|nose|nase|鼻|أنف|จมูก|ринопластик|burun`)},
	{TopicDental, regexp.MustCompile(`dent|teeth|veneer|smile|зуб|diş|牙|أسنان|ฟัน`)},
	{TopicHospitals, regexp.MustCompile(`hospit|clinic|больниц|hastane|医院|مستشفى|โรงพยาบาล`)},
	{TopicBooking, regexp.MustCompile(`book|appoint|reserv|записат|randevu|预约|حجز|นัด`)},
	{TopicPrice, regexp.MustCompile(`pric|cost|price|сколько|стоит|fiyat|цена|价格|سعر|ราคา|how much`)},
}

// Classify 返回文本命中的第一个主题
func Classify(text string) (Topic, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.topic, true
		}
	}
	return "", false
}

// Match 在回答表中查找文本对应的回答
// 未命中或表中缺少该主题时返回 false，调用方应转交远程聊天
func Match(text string, table Table) (string, bool) {
	topic, ok := Classify(text)
	if !ok {
		return "", false
	}
	answer, ok := table[topic]
	if !ok || answer == "" {
		return "", false
	}
	return answer, true
}

// TableFor 返回某语言的回答表，缺失主题使用英文
func TableFor(lang locale.Language) Table {
	merged := make(Table, len(answers[locale.English]))
	for topic, text := range answers[locale.English] {
		merged[topic] = text
	}
	if lang == locale.English {
		return merged
	}
	for topic, text := range answers[lang] {
		merged[topic] = text
	}
	return merged
}
