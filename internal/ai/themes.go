package ai

// Theme 枚举作品集的视觉架构预设。主题是封闭集合而不是自由字符串：
// 每个预设都有且只有一份架构描述，未识别的标识符显式回落到默认值，
// 从而把模型输出的结构方差限制在可后处理的范围内。
type Theme int

const (
	ThemeModern Theme = iota
	ThemeMinimal
	ThemeCyberpunk
	ThemeCreative
	ThemeSwiss
	ThemeNeoBrutalism
	ThemeAurora
)

// DefaultTheme 是未识别标识符的回落预设。
const DefaultTheme = ThemeModern

// ParseTheme 解析主题标识符，未识别时返回 DefaultTheme。
func ParseTheme(s string) Theme {
	switch s {
	case "modern":
		return ThemeModern
	case "minimal":
		return ThemeMinimal
	case "cyberpunk":
		return ThemeCyberpunk
	case "creative":
		return ThemeCreative
	case "swiss":
		return ThemeSwiss
	case "neo-brutalism":
		return ThemeNeoBrutalism
	case "aurora":
		return ThemeAurora
	default:
		return DefaultTheme
	}
}

func (t Theme) String() string {
	switch t {
	case ThemeMinimal:
		return "minimal"
	case ThemeCyberpunk:
		return "cyberpunk"
	case ThemeCreative:
		return "creative"
	case ThemeSwiss:
		return "swiss"
	case ThemeNeoBrutalism:
		return "neo-brutalism"
	case ThemeAurora:
		return "aurora"
	default:
		return "modern"
	}
}

// Architecture 返回该主题的结构化布局说明，嵌入作品集生成提示词。
func (t Theme) Architecture() string {
	switch t {
	case ThemeMinimal:
		return `**LAYOUT: THE "SUPREME" EDITORIAL**
- **Wrapper**: ` + "`min-h-screen bg-[#f2f2f2] text-[#111] selection:bg-black selection:text-white`" + `.
- **Typography**: 'Playfair Display' (Italic 700) for Headings, 'Inter' for body.
- **Structure**:
  - **Nav**: Sticky header with name.
  - **Hero**: Full screen, centered massive text.
  - **Projects**: Large images, minimal text.`
	case ThemeCyberpunk:
		return `**LAYOUT: NEO-TOKYO TERMINAL**
- **Wrapper**: ` + "`min-h-screen bg-black text-[#0f0] font-mono p-4 border-[10px] border-[#222]`" + `.
- **Effect**: CRT Scanlines overlay.
- **Components**: Terminal windows with green borders. Glitch text.`
	case ThemeCreative:
		return `**LAYOUT: BRUTALIST ASYMMETRY**
- **Wrapper**: ` + "`min-h-screen bg-[#eaff00] text-black font-extrabold uppercase`" + `.
- **Typography**: 'Syne' or 'Space Grotesk'.
- **Layout**: Masonry, overlapping elements, marquee text.`
	case ThemeSwiss:
		return `**LAYOUT: INTERNATIONAL TYPOGRAPHIC**
- **Wrapper**: ` + "`min-h-screen bg-[#ededed] text-[#1a1a1a]`" + `.
- **Grid**: Strict modular grid (12-column), visible thin architectural lines (` + "`border-l border-[#ccc]`" + `).
- **Typography**: 'Helvetica Now' or 'Inter' (Heavy weights). Huge, flush-left headings.
- **Vibe**: Order, clarity, asymmetry, negative space.
- **Animation**: Staggered reveal of text lines.`
	case ThemeNeoBrutalism:
		return `**LAYOUT: POP-ART GUMROAD STYLE**
- **Wrapper**: ` + "`min-h-screen bg-[#fdfdfd] text-black`" + `.
- **UI Elements**: Thick black borders (3px-4px), hard shadows (` + "`box-shadow: 6px 6px 0px 0px #000`" + `).
- **Colors**: High saturation accents (Hot Pink, Electric Blue, Bright Yellow).
- **Typography**: 'Space Grotesk' or 'Outfit'. Bold, quirky.
- **Vibe**: Playful, bold, high-contrast, confident.`
	case ThemeAurora:
		return `**LAYOUT: ETHEREAL GRADIENT MESH**
- **Wrapper**: ` + "`min-h-screen bg-black text-white overflow-hidden relative`" + `.
- **Background**: Multiple moving gradient orbs (filter: blur(100px)) animating slowly in background.
- **UI Elements**: Ultra-thin glassmorphism (` + "`bg-white/5 backdrop-blur-2xl border border-white/10`" + `).
- **Typography**: 'Outfit' or 'Manrope'. Light weights, high tracking.
- **Vibe**: Calm, glowing, spiritual, deep tech.`
	default:
		return `**LAYOUT: BENTO GRID WITH PARTICLES & DOCK**
- **Wrapper**: ` + "`min-h-screen bg-[#050505] text-white selection:bg-purple-500 selection:text-white overflow-x-hidden relative`" + `.
- **Background**:
  - **Particles**: ` + "`<div id=\"particles-js\" class=\"fixed inset-0 z-0 pointer-events-none opacity-40\"></div>`" + `.
  - Gradient Blobs: Fixed top-left and bottom-right blobs (purple/blue), blur-3xl opacity-20.
- **Navigation**: Floating Dock at bottom. Glassmorphism, rounded-full.
- **Grid**: ` + "`relative z-10 grid grid-cols-1 md:grid-cols-4 gap-6 p-8 pb-32 max-w-7xl mx-auto`" + `.
- **Cards**: ` + "`backdrop-blur-xl bg-white/5 border border-white/10 rounded-3xl hover:border-white/30 transition-all duration-300 hover:-translate-y-1 shadow-2xl`" + `.
- **Hero**: Span 2 cols, 2 rows. Flex col, huge text.`
	}
}

// Palette 枚举作品集的配色方案。
type Palette int

const (
	PaletteViolet Palette = iota
	PaletteSunset
	PaletteOcean
	PaletteEmerald
)

// DefaultPalette 是未识别标识符的回落配色。
const DefaultPalette = PaletteViolet

// ParsePalette 解析配色标识符，未识别时返回 DefaultPalette。
func ParsePalette(s string) Palette {
	switch s {
	case "violet":
		return PaletteViolet
	case "sunset":
		return PaletteSunset
	case "ocean":
		return PaletteOcean
	case "emerald":
		return PaletteEmerald
	default:
		return DefaultPalette
	}
}

func (p Palette) String() string {
	switch p {
	case PaletteSunset:
		return "sunset"
	case PaletteOcean:
		return "ocean"
	case PaletteEmerald:
		return "emerald"
	default:
		return "violet"
	}
}

// Colors 返回该配色在提示词中的颜色描述。
func (p Palette) Colors() string {
	switch p {
	case PaletteSunset:
		return "Sunset Orange (`orange-500`) mixed with Rose (`rose-500`)"
	case PaletteOcean:
		return "Deep Blue (`blue-600`) mixed with Teal (`teal-400`)"
	case PaletteEmerald:
		return "Emerald Green (`emerald-500`) mixed with Lime (`lime-400`)"
	default:
		return "Neon Violet (`violet-500`) mixed with Cyan (`cyan-400`)"
	}
}
