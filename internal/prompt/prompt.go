// Package prompt turns studio selections into provider prompts. Every slot
// index maps to a fixed role pulled from the catalog tables.
package prompt

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeModel       Mode = "model"
	ModeProduct     Mode = "product"
	ModeVideoReview Mode = "video_review"
	ModeMicrostock  Mode = "microstock"
	ModeStoryboard  Mode = "storyboard"
	ModeECourse     Mode = "ecourse"
)

func ParseMode(value string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(value))); m {
	case ModeModel, ModeProduct, ModeVideoReview, ModeMicrostock, ModeStoryboard, ModeECourse:
		return m, true
	}
	return "", false
}

// Selection is everything the user picked on the control panel.
type Selection struct {
	Mode           Mode   `json:"mode"`
	ManualPrompt   string `json:"manual_prompt"`
	Category       string `json:"category"`
	Template       string `json:"template"`
	Character      string `json:"character"`
	StoryTheme     string `json:"story_theme"`
	CartoonStyle   string `json:"cartoon_style"`
	ProdBackground string `json:"prod_background"`
	ProdPosition   string `json:"prod_position"`
	ProdEffect     string `json:"prod_effect"`
	ProdCategory   string `json:"prod_category"`
	ModelPreset    string `json:"model_preset"`
	Language       string `json:"language"`
	// RefCount is the number of reference images that will go with the call.
	RefCount int `json:"-"`
}

func DefaultSelection() Selection {
	return Selection{
		Mode:           ModeStoryboard,
		ManualPrompt:   DefaultStoryPrompt,
		Category:       "stock-photo",
		Template:       "studio-pure-white",
		Character:      myFace,
		StoryTheme:     "petualangan",
		CartoonStyle:   "pixar-3d",
		ProdBackground: ProdBackgrounds[0],
		ProdPosition:   ProdPositions[0],
		ProdEffect:     ProdEffects[0],
		ProdCategory:   "Semua",
		ModelPreset:    myFace,
		Language:       "ID",
	}
}

func (s Selection) identity() string {
	if s.RefCount > 0 {
		return "the exact person/product from the uploaded reference images"
	}
	return characterByID(s.Character).Prompt
}

func (s Selection) background() string {
	if s.ProdBackground == ViralBackground {
		return viralBackgroundAs
	}
	return s.ProdBackground
}

// SlotPrompt builds the image prompt for slot index. sceneContext replaces
// the storyboard action line when set.
func SlotPrompt(sel Selection, index int, sceneContext string) string {
	switch sel.Mode {
	case ModeProduct:
		return productPrompt(sel)
	case ModeModel:
		return modelPrompt(sel, index)
	case ModeMicrostock:
		return microstockPrompt(sel)
	case ModeStoryboard:
		return storyboardPrompt(sel, index, sceneContext)
	case ModeVideoReview:
		return videoReviewPrompt(sel, index)
	}
	return fmt.Sprintf("Professional Photography. Subject: %s. Perspective: %s. Context: %s. 8k, ultra-realistic.",
		sel.identity(), ProductAngles[slotIndex(index)], templateByID(sel.Template).Prompt)
}

func productPrompt(sel Selection) string {
	var b strings.Builder
	b.WriteString("Professional Commercial Photography.\n")
	fmt.Fprintf(&b, "SUBJECT: %s.\n", sel.identity())
	fmt.Fprintf(&b, "CATEGORY: %s.\n", sel.ProdCategory)
	fmt.Fprintf(&b, "SETTING/BACKGROUND: %s.\n", sel.background())
	fmt.Fprintf(&b, "CAMERA ANGLE/POSITION: %s.\n", sel.ProdPosition)
	fmt.Fprintf(&b, "SPECIAL EFFECT: %s.\n", sel.ProdEffect)
	fmt.Fprintf(&b, "ADDITIONAL DETAILS: %s.\n\n", sel.ManualPrompt)
	b.WriteString("REQUIREMENTS: 8k resolution, ultra-realistic, advertising standard, perfect lighting, crystal clear details.")
	return b.String()
}

// OutfitFor maps a background name to a matching wardrobe for the my-face
// preset. The first keyword group that matches wins.
func OutfitFor(background string) string {
	bg := strings.ToLower(background)
	has := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(bg, k) {
				return true
			}
		}
		return false
	}

	switch {
	case has("cafe", "pagi"):
		return "Casual Trendy Cafe Outfit (Smart Casual). Stylish shirt/blouse, chinos or designer jeans, relaxed hanging-out vibe."
	case has("urban", "street", "brutalis"):
		return "Urban Streetwear Fashion. Bomber jacket, hoodie, oversized tee, cargo pants, sneakers, edgy city look."
	case has("pantai", "tropis"):
		return "Tropical Summer Resort Wear. Linen shirt, sundress, light breezy fabrics, sunglasses, summer accessories."
	case has("mewah", "hitam", "golden"):
		return "Luxury Evening Wear / Red Carpet Style. Elegant dress or sharp suit, premium textures (silk/velvet), sophisticated accessories."
	case has("kamar", "cozy"):
		return "Comfortable Aesthetic Loungewear. Soft knitwear, oversized sweater, comfy pants, relaxed home atmosphere."
	case has("cyberpunk", "neon"):
		return "Futuristic Techwear / Cyberpunk Style. Leather jacket, neon accents, futuristic accessories, bold fashion."
	case has("hutan", "taman", "bunga", "alam"):
		return "Nature / Bohemian Style. Earthy tones, floral patterns, organic fabrics, soft and romantic vibe."
	case has("kerja", "meja"):
		return "Modern Business Casual / Professional. Blazer, crisp white shirt, smart trousers, office-ready look."
	case has("spa", "zen"):
		return "Minimalist Wellness / Zen Style. All-white or beige linen outfit, clean lines, relaxed and pure."
	case has("studio", "putih", "beige"):
		return "High-End Editorial Fashion (Zara/H&M Lookbook Style). Minimalist, chic, trendy, and photogenic."
	}
	return fmt.Sprintf("Trendy Fashion that perfectly matches the '%s' theme. Stylish and coordinated.", background)
}

func modelPrompt(sel Selection, index int) string {
	modelDesc := modelPresetByID(sel.ModelPreset).Desc
	if sel.ModelPreset == myFace {
		modelDesc = fmt.Sprintf("The specific person provided in the reference images (STRICTLY COPY THE FACE ONLY).\n"+
			"OUTFIT & STYLE INSTRUCTION: Because the background is '%s', the character MUST wear: %s\n"+
			"Body language and accessories must match this specific theme.\n"+
			"IGNORE original clothes from the face photo.", sel.ProdBackground, OutfitFor(sel.ProdBackground))
	}
	variation := ModelVariations[slotIndex(index)]

	var b strings.Builder
	if sel.ProdCategory == cartoonCategory {
		b.WriteString("(Masterpiece 3D Cartoon Character:1.5), (Disney Pixar Style:1.4), High Quality 3D Render.\n\n")
		b.WriteString("IMPORTANT: TRANSFORM THIS CHARACTER INTO A CUTE 3D CARTOON VERSION.\n")
		fmt.Fprintf(&b, "CHARACTER IDENTITY: %s (Adapt facial features to 3D Cartoon Style).\n\n", modelDesc)
		b.WriteString("DO NOT CHANGE THE OUTFIT COLOR/STYLE, BUT MAKE IT LOOK LIKE 3D CLOTHING TEXTURE.\n\n")
		writeShotList(&b, sel, variation, " (3D Render Style)")
		b.WriteString("\nREQUIREMENTS: 3D Render, Octane Render, C4D, Blender, Cute, Expressive, 8k resolution, cinematic lighting.")
		return b.String()
	}

	b.WriteString("High-End Fashion Photography Masterpiece.\n\n")
	b.WriteString("IMPORTANT: STRICT CHARACTER CONSISTENCY REQUIRED.\n")
	fmt.Fprintf(&b, "CHARACTER IDENTITY: %s\n\n", modelDesc)
	b.WriteString("DO NOT CHANGE THE CHARACTER'S FACE, BODY TYPE, OR OUTFIT STYLE DESCRIBED ABOVE.\n")
	b.WriteString("KEEP THE CHARACTER IDENTICAL TO PREVIOUS SHOTS.\n\n")
	writeShotList(&b, sel, variation, "")
	b.WriteString("\nREQUIREMENTS: 8k resolution, photorealistic, cinematic lighting, consistent character identity.")
	return b.String()
}

func writeShotList(b *strings.Builder, sel Selection, variation Variation, bgSuffix string) {
	fmt.Fprintf(b, "1. SHOT TYPE / ANGLE: %s\n", variation.Prompt)
	fmt.Fprintf(b, "2. REFERENCE SUBJECT (INTERACTION): %s (The character is holding/using/wearing this product).\n", sel.identity())
	fmt.Fprintf(b, "3. BASE POSE: %s.\n", sel.ProdPosition)
	fmt.Fprintf(b, "4. BACKGROUND: %s%s.\n", sel.background(), bgSuffix)
	fmt.Fprintf(b, "5. VISUAL EFFECT: %s.\n", sel.ProdEffect)
	fmt.Fprintf(b, "6. MANUAL INSTRUCTION: %s.\n", sel.ManualPrompt)
}

func microstockPrompt(sel Selection) string {
	cat := MicrostockCategoryByID(sel.Category)
	var b strings.Builder
	b.WriteString("Commercial Microstock Asset Generation.\n")
	fmt.Fprintf(&b, "CATEGORY: %s (%s).\n", cat.Name, cat.DefaultPrompt)
	fmt.Fprintf(&b, "DESCRIPTION: %s.\n", sel.ManualPrompt)
	fmt.Fprintf(&b, "SUBJECT REFERENCE: %s (Integrate subtly if provided).\n", sel.identity())
	b.WriteString("REQUIREMENTS: High Commercial Value, technically flawless, 8K resolution.")
	return b.String()
}

func storyboardPrompt(sel Selection, index int, sceneContext string) string {
	i := slotIndex(index)
	scene := StoryboardStructure[i]
	action := strings.TrimSpace(sceneContext)
	if action == "" {
		action = scene.Desc
	}
	style := cartoonStyleByID(sel.CartoonStyle)
	direction := sceneDirections[i]

	var consistency string
	if sel.RefCount > 0 {
		consistency = fmt.Sprintf("IMPORTANT: CHARACTER CONSISTENCY FROM REFERENCE PHOTOS.\n"+
			"- SOURCE: Use the %d uploaded reference images as the GROUND TRUTH for the character's face and outfit.\n"+
			"- FACE: The character must look EXACTLY like the person in the reference photos (adapted to %s style).\n"+
			"- OUTFIT: Maintain the EXACT outfit from the reference images across all scenes.\n"+
			"- BODY: Maintain consistent body type and proportions.", sel.RefCount, style.Name)
	} else {
		consistency = fmt.Sprintf("IMPORTANT: CHARACTER CONSISTENCY IS CRITICAL.\n"+
			"- Subject: %s.\n"+
			"- OUTFIT: Keep the outfit EXACTLY the same as previous scenes.", sel.identity())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "VISUAL STYLE (STRICT): %s\n\n", style.Prompt)
	b.WriteString(consistency + "\n\n")
	fmt.Fprintf(&b, "STORY CONCEPT (MAIN CONTEXT): %q\n\n", sel.ManualPrompt)
	fmt.Fprintf(&b, "SCENE CONTEXT (%s):\n", scene.Name)
	fmt.Fprintf(&b, "- Action: %s\n", action)
	fmt.Fprintf(&b, "- MOOD & EXPRESSION: %s\n", direction.mood)
	fmt.Fprintf(&b, "- CAMERA: %s\n\n", direction.camera)
	b.WriteString("ENVIRONMENT:\n")
	fmt.Fprintf(&b, "- Location: %s World.\n", themeByID(sel.StoryTheme).Name)
	b.WriteString("- Detail: Fully rendered 3D environment, rich textures, realistic lighting (Global Illumination).\n\n")
	b.WriteString("NEGATIVE CONSTRAINTS: No white background, no 2D stickers, no floating heads, no text/watermark, no disfigured faces.\n")
	b.WriteString("REQUIREMENTS: 8k, Disney/Pixar Standard, 3D Masterpiece, C4D Render.")
	return b.String()
}

func videoReviewPrompt(sel Selection, index int) string {
	var b strings.Builder
	b.WriteString("Professional Video Thumbnail for AI Generation.\n")
	fmt.Fprintf(&b, "STYLE: %s.\n", VideoStyle(index))
	fmt.Fprintf(&b, "SUBJECT: %s.\n", sel.identity())
	fmt.Fprintf(&b, "CONTEXT: %s.\n", sel.ManualPrompt)
	b.WriteString("REQUIREMENTS: High contrast, cinematic lighting, 8k.")
	return b.String()
}

// VideoStyle returns the motion style of slot index, "Cinematic" outside the
// table.
func VideoStyle(index int) string {
	if index < 0 || index >= len(VideoStyles) {
		return "Cinematic"
	}
	return VideoStyles[index]
}

func SlotLabel(mode Mode, index int) string {
	switch mode {
	case ModeStoryboard:
		if index >= 0 && index < len(StoryboardStructure) {
			return StoryboardStructure[index].Name
		}
		return fmt.Sprintf("SCENE %d", index+1)
	case ModeProduct:
		return fmt.Sprintf("Prod Var %d", index+1)
	case ModeModel:
		if index >= 0 && index < len(ModelVariations) {
			return ModelVariations[index].Label
		}
		return fmt.Sprintf("Model Var %d", index+1)
	case ModeMicrostock:
		return fmt.Sprintf("Stock Var %d", index+1)
	case ModeVideoReview:
		return VideoStyle(index)
	}
	if index >= 0 && index < len(ProductAngles) {
		return ProductAngles[index]
	}
	return "Variation"
}

func EditLabel(index int) string {
	return fmt.Sprintf("Revisi %d", index+1)
}

const RegenerationSuffix = "\n\n(REGENERATION MODE) IMPORTANT:\n" +
	"- STRICTLY MAINTAIN CHARACTER CONSISTENCY (Face, Outfit, Body) from the reference images.\n" +
	"- DO NOT CHANGE THE CHARACTER'S APPEARANCE.\n" +
	"- ONLY CHANGE the Camera Angle, Pose, and Composition to match the scene context."

const ConsistencySuffix = "\n\nIMPORTANT: MAINTAIN EXACT CHARACTER CONSISTENCY. USE THE REFERENCE IMAGE (SCENE 1) FOR FACE, BODY, AND OUTFIT."

// EditPrompt wraps a user revision. Storyboard edits treat the first
// reference image as the inpainting target; other modes restate base.
func EditPrompt(mode Mode, instruction, base string) string {
	if mode == ModeStoryboard {
		var b strings.Builder
		b.WriteString("IMAGE EDITING / INPAINTING MODE.\n")
		b.WriteString("TARGET IMAGE: The first reference image provided.\n")
		fmt.Fprintf(&b, "USER REVISION INSTRUCTION: %q.\n\n", instruction)
		b.WriteString("STRICT CONSTRAINTS:\n")
		b.WriteString("1. RETAIN CHARACTER DETAILS: Do NOT change the character's face, outfit, or body proportions. They must remain identical to the target image.\n")
		b.WriteString("2. RETAIN ENVIRONMENT: Keep the background details consistent unless explicitly asked to change.\n")
		b.WriteString("3. FOCUS: Only modify the specific angle or remove/add the specific element requested in the instruction.\n")
		b.WriteString("4. VISUAL STYLE: Maintain the exact visual style of the reference image.\n\n")
		b.WriteString("Goal: Refine the existing image based on the user's feedback without losing its identity.")
		return b.String()
	}
	return fmt.Sprintf("IMPORTANT EDIT: %s.\nKEEP CHARACTER IDENTITY (FACE/BODY/OUTFIT) CONSISTENT AS: %s", instruction, base)
}

func MotionPrompt(style string) string {
	var b strings.Builder
	b.WriteString("Act as an Expert AI Video Prompt Engineer (Runway Gen-3 / Luma Dream Machine / Kling).\n")
	b.WriteString("Analyze this image and generate a HIGH-FIDELITY, TECHNICAL VIDEO PROMPT.\n\n")
	fmt.Fprintf(&b, "STYLE TARGET: %s.\n\n", style)
	b.WriteString("REQUIRED STRUCTURE:\n")
	b.WriteString("1. SUBJECT ANCHOR: Describe the main subject in extreme detail (clothing texture, expression, lighting on skin).\n")
	b.WriteString("2. MOTION DYNAMICS: Describe specific physical movements (e.g., \"slow motion fabric flow\", \"hair blowing in wind\", \"liquid splash at 60fps\").\n")
	fmt.Fprintf(&b, "3. CAMERA WORK: %s specific camera movement (e.g., \"Low angle truck shot\", \"fast FPV drone\", \"anamorphic lens flare\").\n", style)
	b.WriteString("4. ATMOSPHERE: Lighting, color grading, fog, and mood.\n\n")
	b.WriteString("OUTPUT FORMAT:\n")
	b.WriteString("[One single highly descriptive paragraph, comma-separated technical keywords, English Language].\n")
	b.WriteString("DO NOT add introductory text. Just the prompt.")
	return b.String()
}

func NarrationPrompt(style, concept string) string {
	if strings.TrimSpace(concept) == "" {
		concept = "Produk/Konten Viral"
	}
	var b strings.Builder
	b.WriteString("Bertindaklah sebagai Creative Director & Scriptwriter Iklan TV Profesional.\n")
	b.WriteString("Analisis gambar ini dan buatkan TECHNICAL SCRIPT IKLAN untuk durasi video TEPAT 6 DETIK.\n\n")
	fmt.Fprintf(&b, "STYLE VISUAL TARGET: %s\n", style)
	fmt.Fprintf(&b, "KONSEP / PRODUK: %s\n\n", concept)
	b.WriteString("WAJIB GUNAKAN FORMAT OUTPUT BERIKUT (JANGAN UBAH FORMAT HEADERNYA):\n\n")
	fmt.Fprintf(&b, "VISUAL: [Deskripsi detail gerakan kamera dan subjek yang sesuai dengan gaya %q. Contoh: \"Zoom in perlahan ke wajah...\", \"Orbit shot mengelilingi produk...\", \"Kamera melayang (levitation)...\"]\n", style)
	b.WriteString("AUDIO: [Saran jenis musik background, genre, dan tempo. Contoh: \"Upbeat TikTok Viral\", \"Cinematic Orchestral\", \"Lo-Fi Chill\"]\n")
	b.WriteString("SFX: [Saran efek suara spesifik di momen tertentu. Contoh: \"Whoosh saat transisi\", \"Cling saat produk muncul\", \"Suara langkah kaki\"]\n")
	b.WriteString("SUARA: \"[Tuliskan Naskah Voiceover (Bahasa Indonesia). Kalimat harus punchy, persuasif, gaul/marketing, dan muat dalam 6 detik (Maksimal 12-15 kata). Gunakan tanda kutip.]\"\n\n")
	fmt.Fprintf(&b, "Pastikan seluruh elemen (Visual, Audio, SFX, Suara) menyatu menciptakan mood %q.", style)
	return b.String()
}

func CaptionPrompt() string {
	var b strings.Builder
	b.WriteString("Bertindaklah sebagai Senior Content Strategist TikTok & Reels (Expert FYP Algorithm).\n")
	b.WriteString("Analisis gambar ini dan buatkan 3 OPSI CAPTION PREMIUM untuk video review produk.\n\n")
	b.WriteString("UNTUK SETIAP OPSI, TULISKAN:\n")
	b.WriteString("1. HOOK: Kalimat pembuka 1 baris yang bikin berhenti scroll.\n")
	b.WriteString("2. BODY: 2-3 kalimat persuasif yang menonjolkan manfaat utama produk.\n")
	b.WriteString("3. CTA: Ajakan bertindak yang jelas (contoh: \"Klik keranjang kuning sekarang!\").\n")
	b.WriteString("4. HASHTAG: 5-8 hashtag relevan dan sedang trending.\n\n")
	b.WriteString("Gunakan Bahasa Indonesia yang santai, gaul, dan meyakinkan. Pisahkan setiap opsi dengan garis \"---\".")
	return b.String()
}

const stockCategoryList = "1: Animals, 2: Buildings/Architecture, 3: Business/Money, 4: Drinks/Beverages, 5: Environment/Ecology, " +
	"6: States of Mind/Emotions, 7: Food, 8: Graphic Resources/Backgrounds, 9: Hobbies/Leisure, 10: Industry/Craft, " +
	"11: Landscapes/Nature, 12: Lifestyle, 13: People, 14: Plants/Flowers, 15: Culture/Religion, 16: Science/Technology, " +
	"17: Social Issues, 18: Sports, 19: Technology, 20: Transport, 21: Travel/Vacation"

// StockMetadataPrompt asks for Adobe Stock title, keywords and category.
// AI-generated uploads must be labelled as such.
func StockMetadataPrompt(isAI bool) string {
	var b strings.Builder
	b.WriteString("Act as a Senior Microstock SEO Specialist for Adobe Stock.\n")
	b.WriteString("Analyze the provided image and generate metadata to MAXIMIZE SALES (Downloads).\n\n")
	if isAI {
		b.WriteString("IMPORTANT (AI CONTENT):\n")
		b.WriteString("1. The Title MUST end with the exact suffix \" - Generative AI\".\n")
		b.WriteString("2. The Keywords MUST include these tags at the beginning: \"generative ai\", \"ai generated\", \"ai art\", \"digital art\", \"illustration\".\n\n")
	} else {
		b.WriteString("IMPORTANT (REAL PHOTO):\n")
		b.WriteString("1. Do NOT include any AI-related terms in Title or Keywords. Focus on authenticity, depth of field, and real-world details.\n\n")
	}
	b.WriteString("OUTPUT REQUIREMENTS (Strict JSON):\n")
	b.WriteString("1. title: Commercial, descriptive, concise (Max 70 characters). Subject + Action + Context. English Language.\n")
	b.WriteString("2. keywords: Generate exactly 45 to 49 keywords. Sorted by relevance (Most important first). Separated by commas. English.\n")
	fmt.Fprintf(&b, "3. category_id: Select the single best integer ID from this list: [%s]. Return ONLY the number (e.g., 11).", stockCategoryList)
	return b.String()
}

func slotIndex(i int) int {
	if i < 0 || i >= 6 {
		return 0
	}
	return i
}
