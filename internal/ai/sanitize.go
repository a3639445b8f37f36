package ai

import (
	"encoding/json"
	"strings"
)

// PhotoSentinel 在发送给补全服务前替换掉照片数据（通常是巨大的 base64
// data URI），生成结束后再换回来。照片绝不允许原样进入提示词。
const PhotoSentinel = "__USER_PHOTO__"

// Restore 记录脱敏时摘除的原始值，用于事后还原。
type Restore struct {
	photo string
}

// Sanitize 返回简历文档的脱敏副本。通过 JSON 反序列化得到全新对象，
// 调用方持有的原始字节不会被触碰（原文档在生成结束后还要用于还原）。
func Sanitize(doc json.RawMessage) (json.RawMessage, Restore, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, Restore{}, wrapError(KindValidation, "resumeData must be a JSON object", err)
	}

	var restore Restore
	if personal, ok := m["personalInfo"].(map[string]any); ok {
		if photo, ok := personal["photoUrl"].(string); ok && photo != "" {
			restore.photo = photo
			personal["photoUrl"] = PhotoSentinel
		}
	}

	sanitized, err := json.Marshal(m)
	if err != nil {
		return nil, Restore{}, wrapError(KindValidation, "failed to re-encode resume data", err)
	}
	return sanitized, restore, nil
}

// Apply 将生成文本中的占位符替换回原始照片数据。
// 原文档没有照片时不做任何替换：模型被告知该字段不存在，
// 它若仍凭空输出占位符，保留原样即可。
func (r Restore) Apply(text string) string {
	if r.photo == "" {
		return text
	}
	return strings.ReplaceAll(text, PhotoSentinel, r.photo)
}

// HasPhoto 报告脱敏时是否摘除了照片数据。
func (r Restore) HasPhoto() bool { return r.photo != "" }
