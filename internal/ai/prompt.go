package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildSuggestionPrompt 构造简历内容建议提示词：职业摘要 + 恰好 5 条技能，
// 并要求严格 JSON 输出。配合补全客户端的 JSON 模式使用，但解析校验仍在本地做。
func BuildSuggestionPrompt(jobTitle string, currentSkills []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert resume writer. Generate a professional summary and a list of 5 key skills for a %q.\n", jobTitle)
	if len(currentSkills) > 0 {
		fmt.Fprintf(&b, "The candidate already has these skills: %s.\n", strings.Join(currentSkills, ", "))
	}
	b.WriteString("CRITICAL: Do NOT start with \"Results-driven\", \"Passionate\", \"Seasoned\", \"Motivated\", or other clichés. Be direct, modern, and specific.\n")
	b.WriteString("Return JSON format: { \"summary\": \"string\", \"skills\": [\"string\"] }")
	return b.String()
}

// BuildPortfolioPrompt 构造长结构提示词：主题架构库、配色、导航与分区契约、
// 资源获取规则，以及优先级高于主题默认值的用户自定义指令。
// 脱敏后的简历文档以 JSON 原文嵌入，供模型引用具体字段。
func BuildPortfolioPrompt(sanitized json.RawMessage, theme Theme, palette Palette, customPrompt string) string {
	if strings.TrimSpace(customPrompt) == "" {
		customPrompt = "No custom instructions provided."
	}
	return fmt.Sprintf(portfolioPromptSkeleton,
		string(sanitized),
		customPrompt,
		strings.ToUpper(theme.String()),
		palette.Colors(),
		theme.Architecture(),
	)
}

// 模板用 ?BT? 占位反引号（Go 原生字符串无法包含反引号字面量）。
var portfolioPromptSkeleton = strings.ReplaceAll(portfolioPromptSkeletonRaw, "?BT?", "`")

const portfolioPromptSkeletonRaw = `You are an elite creative developer (Awwwards Jury Member). Generate a **COMPLETE, SELF-CONTAINED HTML5** personal portfolio website.

**CRITICAL INSTRUCTION**: You must return a SINGLE HTML file with the EXACT structure below. Do not deviate.
**FORMAT**: Return ID-formatted semantic HTML.

Resume Data:
%s

**Theme System:**
- **"modern"**: Dark mode, particles, bento grid, glass dock.
- **"minimal"**: Clean, fashion-editorial, large serif typography.
- **"cyberpunk"**: Hacker terminal, neon green, glitch effects, Three.js Grid.
- **"creative"**: Experimental, brutalist, yellow/black.
- **"swiss"**: Grid-based, architectural, structured, Helvetica-ish.
- **"neo-brutalism"**: High contrast, hard shadows, vibrant, pop-art.
- **"aurora"**: Dark, moving gradients, deep glassmorphism, glowing.

**USER CUSTOM INSTRUCTIONS (PRIORITY OVER THEME):**
"%s - Use 3D elements and high-quality assets."

**Configuration:**
- **Theme**: %s
- **Palette**: %s
- **Architecture**: %s

**Visual Asset Strategy (MANDATORY):**
1.  **Images**: Use high-quality Unsplash source URLs with specific keywords.
    - Example: ?BT?https://source.unsplash.com/random/1920x1080/?abstract,technology,dark?BT?
    - Use ?BT?object-fit: cover?BT? on ALL images.
2.  **3D/WebGL**:
    - Include ?BT?Three.js?BT? CDN.
    - For "Cyberpunk" or "Aurora", create a simple 3D background (rotating cube wireframe or moving particles) if possible within a single file.
3.  **Backgrounds**:
    - Use CSS gradients or subtle noise textures (?BT?url('https://grainy-gradients.vercel.app/noise.svg')?BT?).

**Strict Layout Structure (DO NOT BREAK):**
1.  **<nav>**: **FIXED TOP** (top:0, left:0, w-full, z-50).
    - **MANDATORY LINKS**: ?BT?<a href="#home" onclick="handleNavClick(event, '#home')">Home</a>?BT?, ?BT?<a href="#about" onclick="handleNavClick(event, '#about')">About</a>?BT?, ?BT?<a href="#work" onclick="handleNavClick(event, '#work')">Work</a>?BT?, ?BT?<a href="#contact" onclick="handleNavClick(event, '#contact')">Contact</a>?BT?.
    - **CRITICAL**: ALL links MUST use ?BT?onclick="handleNavClick(event, 'target')"?BT? to prevent redirects.
    - **NEVER** use ?BT?href="/"?BT? or ?BT?href="index.html"?BT?. ONLY anchor links (?BT?#id?BT?).
    - Must be visible at all times (sticky/fixed).
2.  **<header id="home">**: Full viewport height (?BT?min-h-screen?BT?). Flex/Grid centered.
    - Must contain: Huge Name, Title/Role.
3.  **<section id="about">**: Min-height 50vh. Two-column layout (Text + Image).
4.  **<section id="work">**: Min-height 100vh. Grid layout for projects.
    - Cards must have images.
5.  **<section id="contact">**: Simple footer with social links.

**Design & Quality Guidelines:**
- **Mobile First**: Default styles are mobile. Use ?BT?md:...?BT? for desktop.
- **Typography**: ?BT?clamp(2rem, 5vw, 6rem)?BT? for headings.
- **Spacing**: ?BT?gap-8?BT?, ?BT?py-24?BT? minimum for sections.
- **Safety**: ?BT?overflow-x: hidden?BT? on body to prevent scrollbar issues.

**Code Structure (Single File):**
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{portfolioTitle}}</title>

    <!-- Fonts -->
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link href="https://fonts.googleapis.com/css2?family=Inter:wght@300;400;600&family=Space+Grotesk:wght@400;700&family=Playfair+Display:ital,wght@0,600;1,600&family=Outfit:wght@300;500;700&family=Syne:wght@700;800&display=swap" rel="stylesheet">

    <!-- Tailwind (CDN) -->
    <script src="https://cdn.tailwindcss.com"></script>
    <script>
      tailwind.config = {
          theme: {
              extend: {
                  colors: {
                      primary: 'var(--primary)',
                      secondary: 'var(--secondary)',
                  },
                  fontFamily: {
                       sans: ['Inter', 'sans-serif'],
                       display: ['Space Grotesk', 'sans-serif'],
                       serif: ['Playfair Display', 'serif'],
                  }
              }
          }
      }
    </script>

    <!-- Libraries -->
    <script src="https://cdnjs.cloudflare.com/ajax/libs/gsap/3.12.5/gsap.min.js"></script>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/gsap/3.12.5/ScrollTrigger.min.js"></script>
    <script src="https://unpkg.com/split-type"></script>
    <script src="https://unpkg.com/@studio-freight/lenis@1.0.42/dist/lenis.min.js"></script>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/three.js/r128/three.min.js"></script>

    <style>
        :root { ... }
        body { margin: 0; overflow-x: hidden; background-color: var(--bg-color); color: var(--text-color); }
        section { position: relative; width: 100%%; z-index: 10; }
        /* SAFETY STYLES */
        #canvas-container { pointer-events: none; z-index: 0; position: fixed; top: 0; left: 0; width: 100%%; height: 100%%; }
        nav { z-index: 9999 !important; }
        .content-layer { position: relative; z-index: 20; }

        /* PRELOADER */
        #preloader { position: fixed; inset: 0; bg-color: var(--bg-color); z-index: 10000; display: flex; align-items: center; justify-content: center; transition: opacity 0.5s ease; }
    </style>
</head>
<body>
    <div id="preloader">Loading...</div>
    <div id="smooth-wrapper">
        <div id="smooth-content">

            <nav class="...">
                <!-- Links to #home, #about, #work -->
            </nav>

            <header id="home" class="min-h-screen flex items-center justify-center relative overflow-hidden">
                <div id="canvas-container" class="absolute inset-0 z-0"></div> <!-- For Three.js -->
                <div class="relative z-10 text-center content-layer">
                    <h1 class="...">Name</h1>
                </div>
            </header>

            <section id="about" class="py-24 px-6 ...">
                <!-- About Content -->
            </section>

            <section id="work" class="py-24 px-6 ...">
                <!-- Project Grid -->
            </section>

            <footer id="contact" class="...">
                <!-- Socials -->
            </footer>
        </div>
    </div>

    <script>
        // SAFETY: Navigation Handler
        function handleNavClick(e, targetId) {
            e.preventDefault();
            const target = document.querySelector(targetId);
            if (target) {
                // Smooth scroll with lenis or native
                target.scrollIntoView({ behavior: 'smooth' });
            }
        }

        // SAFETY: Wrap everything to prevent crash
        try {
            gsap.registerPlugin(ScrollTrigger);

            // 1. Lenis Smooth Scroll
            const lenis = new Lenis();
            function raf(time) {
                lenis.raf(time);
                ScrollTrigger.update();
                requestAnimationFrame(raf);
            }
            requestAnimationFrame(raf);

            // 2. Hide Preloader
            window.onload = () => {
                gsap.to("#preloader", { opacity: 0, duration: 0.5, onComplete: () => document.getElementById("preloader").remove() });
            };

            // 3. GSAP Animations
            gsap.from("h1", { y: 100, opacity: 0, duration: 1, ease: "power4.out" });

            // 4. Three.js Safety
            try {
                // Init simplified Three.js scene targeting #canvas-container
                // MUST CHECK IF CONTAINER EXISTS
                const container = document.getElementById("canvas-container");
                if(container && window.THREE) {
                     // ... code ...
                }
            } catch (e) { console.warn("3D Error handled:", e); }
        } catch (err) {
            console.error("Critical site error:", err);
            // Remove preloader fallback
            const pl = document.getElementById("preloader");
            if(pl) pl.style.display = "none";
        }
    </script>
</body>
</html>`
