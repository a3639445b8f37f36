package ai

import (
	"encoding/json"
	"strings"
)

// Suggestion 是短路径（内容建议）的结构化结果。
type Suggestion struct {
	Summary string   `json:"summary"`
	Skills  []string `json:"skills"`
}

// ParseSuggestion 将原始模型输出解析为 Suggestion。
// 解析失败归类为 malformed_response：这是模型违反输出契约，
// 必须与传输/鉴权类故障区分开。
func ParseSuggestion(raw string) (Suggestion, error) {
	var s Suggestion
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &s); err != nil {
		return Suggestion{}, wrapError(KindMalformedResponse, "model returned invalid JSON", err)
	}
	return s, nil
}

// StripCodeFences 去掉模型无视指令包裹在输出外层的 Markdown 代码栅栏
// （带或不带语言标签的三反引号）。幂等：重复调用结果不变。
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// navGuardScript 在沙箱 iframe 内把锚点点击改写为平滑滚动，
// 阻止不可信文档发起真实导航。
const navGuardScript = `<script>
function handleNavClick(e, targetId) {
    e.preventDefault();
    var target = document.querySelector(targetId);
    if (target) {
        target.scrollIntoView({ behavior: 'smooth' });
    }
}
</script>`

// EnsureNavGuard 确保生成的 HTML 里存在 handleNavClick 定义。
// 提示词要求模型自带这段脚本；模型漏掉时在 </body> 前补注入。
// 不校验 HTML 良构性：该风险交由消费端的沙箱 iframe 承担。
func EnsureNavGuard(html string) string {
	if strings.Contains(html, "function handleNavClick") {
		return html
	}
	if idx := strings.LastIndex(html, "</body>"); idx >= 0 {
		return html[:idx] + navGuardScript + "\n" + html[idx:]
	}
	return html + "\n" + navGuardScript
}
