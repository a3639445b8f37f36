package ai

import "sync/atomic"

// KeyPool 持有进程级的 API 凭证池，并以轮转方式分摊各凭证的限流配额。
// 游标只增不减，取模后索引，永不越界；两个并发请求拿到同一把凭证是允许的
// （轮转只是负载分摊的启发式，不提供互斥保证）。
// 池中不做健康检查或剔除：失效凭证会在下一轮被再次尝试。
type KeyPool struct {
	keys   []string
	cursor atomic.Uint64
}

// NewKeyPool 用已清洗（去空白、去引号、去空项）的凭证列表构造池。
// 清洗发生在配置加载阶段，池本身只信任入参。
func NewKeyPool(keys []string) *KeyPool {
	return &KeyPool{keys: keys}
}

// Next 返回下一把凭证。池为空时返回 not_configured 错误而不是越界。
func (p *KeyPool) Next() (string, error) {
	if len(p.keys) == 0 {
		return "", newError(KindNotConfigured, "AI service is not configured (missing API key)")
	}
	idx := p.cursor.Add(1) - 1
	return p.keys[idx%uint64(len(p.keys))], nil
}

// Size 返回池中凭证数量。
func (p *KeyPool) Size() int { return len(p.keys) }

// Masked 返回脱敏后的凭证视图（前 8 位 + "..."），用于诊断端点。
func (p *KeyPool) Masked() []MaskedKey {
	out := make([]MaskedKey, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, MaskedKey{Masked: maskKey(k), Length: len(k)})
	}
	return out
}

// MaskedKey 是凭证的诊断视图，绝不包含完整凭证。
type MaskedKey struct {
	Masked string `json:"masked"`
	Length int    `json:"length"`
}

func maskKey(key string) string {
	const prefix = 8
	if len(key) <= prefix {
		return key[:len(key)/2] + "..."
	}
	return key[:prefix] + "..."
}
