package prompt

type Scene struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type Category struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DefaultPrompt string `json:"default_prompt"`
}

type Character struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

type Template struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

type NamedOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Style struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

type ModelPreset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type Variation struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type Language struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	writer    string
	directive string
	remainder string
}

type sceneDirection struct {
	mood   string
	camera string
}

const (
	ViralBackground   = "✨ Viral (Acak)"
	viralBackgroundAs = "Trendy Aesthetic Background, High Quality"
	cartoonCategory   = "3D Cartoon"
	myFace            = "my-face"
)

const DefaultStoryPrompt = "Contoh : Naufal dan Shanum Berpetualang di hutan seram"

// StoryboardStructure is the fixed six-beat story arc. Slot i always plays
// beat i.
var StoryboardStructure = [6]Scene{
	{Name: "SCENE 1: INTRO / AWAL", Desc: "Perkenalan dunia & karakter. Siapa mereka, di mana lokasinya, dan mood awal. (Contoh: Pagi cerah, karakter muncul)."},
	{Name: "SCENE 2: PEMICU CERITA", Desc: "Masalah atau rasa penasaran muncul. Ada kejadian kecil atau tujuan mulai terbentuk. (Contoh: Menemukan tombol misterius)."},
	{Name: "SCENE 3: AKSI AWAL", Desc: "Mulai bergerak menyelesaikan tujuan. Eksplorasi atau percobaan pertama. (Contoh: Mengikuti cahaya ke tempat baru)."},
	{Name: "SCENE 4: TANTANGAN / KONFLIK", Desc: "Puncak cerita (High Tension). Hambatan besar, emosi naik, atau waktu hampir habis. (Contoh: Jalan terhalang, mesin rusak)."},
	{Name: "SCENE 5: SOLUSI", Desc: "Masalah mulai teratasi. Ide muncul atau kerja sama tim terjadi. (Contoh: Bekerja sama menekan kode yang benar)."},
	{Name: "SCENE 6: ENDING / PENUTUP", Desc: "Fungsi: Penutup yang jelas & memuaskan. Isi: Masalah selesai, Pesan moral / happy ending."},
}

var sceneDirections = [6]sceneDirection{
	{
		mood:   "Expression: Happy, curious, wide-eyed excitement. Atmosphere: Bright, welcoming, magical morning light.",
		camera: "Wide Establishing Shot, clear view of character and environment.",
	},
	{
		mood:   "Expression: Surprised, intrigued, looking at something specific. Atmosphere: Slightly mysterious but safe.",
		camera: "Medium Shot, focus on character reaction.",
	},
	{
		mood:   "Expression: Determined, adventurous, brave, active body language (Walking/Running). Atmosphere: Dynamic daylight, motion blur background.",
		camera: "Action Shot, Low Angle (Hero View).",
	},
	{
		mood:   "Expression: Scared, worried, mouth slightly open, tense. Atmosphere: Darker, dramatic shadows, volumetric fog, high contrast (Danger).",
		camera: "Close Up or Dutch Angle (Tilted) to show tension.",
	},
	{
		mood:   "Expression: Relieved, smiling, confident, interaction with object/friend. Atmosphere: Warm glowing light (Eureka moment).",
		camera: "Eye Level, balanced composition.",
	},
	{
		mood:   "Expression: Very Happy, laughing, peaceful, satisfied. Atmosphere: Beautiful Golden Hour Sunset, magical sparkles.",
		camera: "Wide Cinematic Shot, walking away or looking at horizon.",
	},
}

var Categories = []Category{
	{ID: "all", Name: "Semua", DefaultPrompt: "Professional product photography, ultra-sharp 8k resolution, "},
	{ID: "beauty", Name: "Kecantikan", DefaultPrompt: "Professional beauty photography, high-end skincare context, ultra-sharp 8k resolution, "},
	{ID: "fashion", Name: "Fashion", DefaultPrompt: "Professional fashion photography, luxury apparel context, ultra-sharp 8k resolution, "},
	{ID: "food", Name: "F&B", DefaultPrompt: "Professional food photography, gourmet context, ultra-sharp 8k resolution, "},
	{ID: "tech", Name: "Gadget", DefaultPrompt: "Professional tech photography, sleek electronic device, ultra-sharp 8k resolution, "},
}

var MicrostockCategories = []Category{
	{ID: "stock-photo", Name: "Foto Asli", DefaultPrompt: "High-end Stock Photography, Commercial use style, crystal clear focus, ultra-sharp details, perfect lighting. "},
	{ID: "flat-3d", Name: "Flat 3D", DefaultPrompt: "3D Render, Clay style or Blender Cycles, Isometric view, clean background, soft lighting, 8k. "},
	{ID: "flat-2d", Name: "Flat 2D", DefaultPrompt: "Flat design illustration, 2D vector style, clean lines, minimalist, vibrant colors, isolated. "},
	{ID: "vector", Name: "Vektor", DefaultPrompt: "Vector Art, Adobe Illustrator style, mathematically perfect curves, solid colors, isolated on white. "},
	{ID: "illustration", Name: "Ilustrasi", DefaultPrompt: "Digital Illustration, Artistic hand-drawn style, highly detailed, creative composition. "},
	{ID: "realistic", Name: "Foto Realistik", DefaultPrompt: "Hyper-realistic photography, 8k resolution, cinematic lighting, photorealism engine. "},
}

var Characters = []Character{
	{ID: "rian", Name: "Rian (Pria Asia)", Prompt: "Rian (Indonesian man, 28yo, short black hair, casual trendy outfit)"},
	{ID: "sofia", Name: "Sofia (Super Model)", Prompt: "Sofia (Stunning mixed-race woman, 24yo, long wavy hair, elegant dress)"},
	{ID: "aisha", Name: "Aisha (Hijab Glowing)", Prompt: "Aisha (Beautiful woman in modern pastel hijab, 23yo, sweet smile, modest fashion)"},
	{ID: "naufal", Name: "Naufal (Petualang)", Prompt: "Naufal (A brave young Indonesian explorer, 25yo, wearing safari outdoor outfit, backpack, adventurous look)"},
	{ID: "my-face", Name: "Wajah Saya", Prompt: "The specific person provided in the uploaded reference image (SUMBER FOTO)"},
}

var Templates = []Template{
	{ID: "studio-pure-white", Name: "Studio Putih", Prompt: "Clean bright environment, high key lighting. "},
	{ID: "studio-dark-luxury", Name: "Hitam Mewah", Prompt: "Dark dramatic cinematic background, rim lighting. "},
	{ID: "lifestyle-living", Name: "Living Room", Prompt: "Cozy modern living room, bokeh background. "},
}

var StoryThemes = []NamedOption{
	{ID: "petualangan", Name: "Petualangan"},
	{ID: "edukasi", Name: "Edukasi"},
	{ID: "horor", Name: "Horor"},
	{ID: "komedi", Name: "Komedi"},
	{ID: "action", Name: "Action"},
	{ID: "fantasi", Name: "Fantasi"},
	{ID: "scifi", Name: "Sci-Fi"},
	{ID: "misteri", Name: "Misteri"},
	{ID: "slice-of-life", Name: "Slice of Life"},
	{ID: "drama", Name: "Drama"},
	{ID: "olahraga", Name: "Olahraga"},
	{ID: "musikal", Name: "Musikal"},
	{ID: "super-hero", Name: "Super Hero"},
	{ID: "sejarah", Name: "Sejarah"},
	{ID: "fabel", Name: "Fabel (Hewan)"},
}

var CartoonStyles = []Style{
	{ID: "pixar-3d", Name: "1. 3D Pixar-style", Prompt: "(Masterpiece 3D Animation:1.6), (Disney Pixar Style:1.5), Full Cinematic Scene, Octane Render, Redshift, Volumetric Lighting, Ray Tracing, Vivid Colors, Expressive Character blended perfectly with background, Depth of Field, No sticker effect"},
	{ID: "clay", Name: "2. Clay Animation", Prompt: "(Cute Claymation Masterpiece:1.6), (Soft Plasticine Art:1.5), Rounded character design, Play-Doh texture, Handcrafted miniature world, Fingerprints and imperfections on clay, Tilt-shift photography, Depth of field, Soft studio lighting, Warm cozy atmosphere, Octane Render, 3D Animation Style, Physical presence, Realistic shadows"},
	{ID: "doodle", Name: "3. Hand-Drawn / Doodle", Prompt: "(Hand-Drawn Sketch Style:1.6), (Cute 2D Illustration:1.5), Black ink outlines, Marker or Watercolor coloring style, Simple and clean strokes, Children Book Illustration, White background with simple environmental elements, Expressive character, Flat 2D Vector Art, Charming aesthetic, Not 3D"},
	{ID: "watercolor", Name: "4. Watercolor / Storybook", Prompt: "(Whimsical Watercolor Masterpiece:1.6), (Classic Children Book Illustration:1.5), Soft detailed watercolor painting, Dreamy forest atmosphere, Cute round characters, Gentle pastel palette, Magical lighting, Intricate background details, Beatrix Potter style, Soft edges, High quality art, Heartwarming"},
	{ID: "paper-cut", Name: "5. Paper Cut / Cutout", Prompt: "(Paper Cutout Animation:1.5), Layered Paper Art, Depth created by shadows between paper layers, Craft and DIY aesthetic, Vibrant paper textures, Character made of paper standing in a paper world, Realistic macro photography of paper art"},
	{ID: "felt", Name: "6. Felt / Fabric", Prompt: "(Cute Felt Doll Masterpiece:1.6), (Handmade Fabric Art:1.5), Soft wool felt texture, Visible thick stitching, Patchwork details, Button eyes or felt cutouts, Plush toy aesthetic, Macro photography, Soft fuzzy edges, Warm studio lighting, Craft world atmosphere, Tactile 3D render, Vibrant colors"},
	{ID: "low-poly", Name: "7. Low Poly 3D", Prompt: "(Low Poly 3D Art:1.6), (Minimalist Geometric Character:1.5), Constructed from simple primitive shapes (Spheres, Cylinders, Cubes), Vibrant flat colors, Papercraft or rigid puppet aesthetic, Sharp faceted edges, No smooth shading, 3D Render, Clean background, Quirky and funny design"},
	{ID: "anime-kids", Name: "8. Anime Kids Style", Prompt: "(Masterpiece Cute Anime Style:1.6), (Vibrant Shojo Animation:1.5), Big expressive sparkling eyes, Clean lineart, Soft Cel Shading, Bright cheerful colors, Kawaii aesthetic, High quality 2D anime screenshot, Detailed background with soft sunlight, Cherry blossoms, Heartwarming and innocent look"},
	{ID: "stop-motion", Name: "9. Stop Motion Toy", Prompt: "(Stop Motion Toy Photography:1.6), (Cute Vinyl Figure:1.5), Smooth shiny plastic material, Claymation aesthetic, Articulated doll joints, Miniature world diorama, Macro lens, Shallow depth of field, Soft studio lighting, Vibrant colors, 3D Render, Octane Render, High quality texture"},
	{ID: "crayon", Name: "10. Crayon / Child Drawing", Prompt: "(Cute Crayon Drawing:1.6), (Children Book Illustration:1.5), Wax crayon texture on rough paper, Hand-drawn naive style, Vibrant colors, Simple cute character design, Thick textured outlines, White paper background showing through, Playful and innocent aesthetic, 2D Flat Art"},
}

// VideoStyles doubles as the per-slot motion style for video review and for
// motion/narration prompts.
var VideoStyles = [6]string{
	"Cinematic Masterpiece",
	"Levitation (Anti-Gravity)",
	"Lifestyle Authentic",
	"Epic VFX Transformation",
	"360° Studio Loop",
	"Y2K Pop Viral",
}

var ProdCategories = []string{
	"Semua", "Kecantikan", "Fashion", "F&B", "Gadget", "Home", "Kesehatan", cartoonCategory,
}

var ProdBackgrounds = []string{
	ViralBackground, "Studio Putih", "Beige Minimalis", "Hitam Mewah", "Kain Artistik",
	"Urban Street", "Pastel Pop", "Abstrak Seni", "Nordic Clean", "Terrazzo Trendy",
	"Gradient Glass", "Brutalis Beton", "Cahaya Jendela", "Batu Alam", "Hutan & Bunga",
	"Podium Geometris", "Pantai Tropis", "Dapur Marmer", "Kamar Cozy", "Cyberpunk City",
	"Taman Bunga", "Spa & Zen", "Awan Dreamy", "Meja Kerja Kayu", "Golden Sunset",
	"Bunga Kering (Boho)", "Pagi Cafe",
}

var ProdPositions = []string{
	"1. Lurus & Tengah", "2. Miring Kanan", "3. Sudut Bawah", "4. Melayang", "5. Tampak Atas",
	"6. Miring Kiri", "7. Zoom Detail", "8. Samping", "9. Dipegang",
}

var ProdEffects = []string{
	"1. Normal", "2. Splash Air", "3. Efek Api", "4. POV Tangan", "5. Flatlay", "6. Neon Cyber",
	"7. Macro Detail", "8. Bawah Air", "9. Exploded", "10. Cermin", "11. Asap Warna",
	"12. Efek Beku", "13. Prisma", "14. Serbuk Emas", "15. Gerak Cepat", "16. Holographic",
	"17. Sketsa Pensil", "18. Origami", "19. Tetesan Cat", "20. Double Exp.", "21. Vaporwave",
	"22. Bokeh", "23. Gelembung",
}

var ModelPresets = []ModelPreset{
	{ID: "my-face", Name: "Wajah Saya (Unggah)", Desc: "The specific person provided in the uploaded reference images"},
	{ID: "rian", Name: "Rian (Pria Asia)", Desc: "Rian, an Indonesian man, 28 years old. Sharp jawline, short fade black hair, light brown skin. He is wearing a Plain White T-Shirt and a Navy Blue Bomber Jacket. He wears silver watch on left hand. Consistent face and body type across all shots."},
	{ID: "sofia", Name: "Sofia (Super Model)", Desc: "Sofia, a stunning mixed-race supermodel, 24 years old. Long wavy brunette hair, high cheekbones, almond eyes. She is wearing a Red Satin Slip Dress and gold hoop earrings. Tall and slender physique. Consistent face and body type across all shots."},
	{ID: "aisha", Name: "Aisha (Hijab Glowing)", Desc: "Aisha, a beautiful Asian woman, 23 years old. She wears a Sage Green Pashmina Hijab (modern style) and a cream-colored modest blouse. Glowing flawless skin, sweet smile, soft facial features. Consistent face and clothing across all shots."},
	{ID: "pak-budi", Name: "Pak Budi (Mature)", Desc: "Pak Budi, a charismatic Indonesian man, 50 years old. Salt-and-pepper hair, neatly combed. He wears a classic Brown Batik Shirt (long sleeve) and black trousers. Wise and friendly expression. Consistent face and clothing across all shots."},
	{ID: "raffi", Name: "Raffi (Host Hits)", Desc: "Raffi, an energetic celebrity host, 30 years old. Stylish undercut hair, bright smile. He wears a colorful yellow and blue Hoodie and white sneakers. Dynamic energy. Consistent face and clothing across all shots."},
	{ID: "nichol", Name: "Nichol (Aktor Tampan)", Desc: "Nichol, a handsome heartthrob actor, 23 years old. Messy cool hairstyle, sharp nose, intense gaze. He wears a Black Leather Jacket over a grey t-shirt. Edgy movie star vibe. Consistent face and clothing across all shots."},
	{ID: "manda", Name: "Manda (Soap Star)", Desc: "Manda, a sophisticated Indonesian actress, 25 years old. Straight shoulder-length black hair. She wears a professional White Blazer and pink lipstick. Elegant and dramatic aura. Consistent face and clothing across all shots."},
	{ID: "prilly", Name: "Prilly (Cantik Imut)", Desc: "Prilly, a petite and cute woman, 22 years old. Big expressive eyes, cheerful smile, long black hair. She wears a Yellow Summer Dress with floral patterns. Bubbly personality. Consistent face and clothing across all shots."},
	{ID: "fuji", Name: "Fuji (TikTok Viral)", Desc: "Fuji (Indonesian TikTok Viral), a cute trendy Gen-Z girl, 20 years old. Shoulder length hair with airy bangs (poni tipis), slightly brownish hair. She is wearing a Blue Denim Jacket over a Black T-shirt with white text. Playful and cute expression (pouting lips). Consistent face and clothing across all shots."},
}

var ProductAngles = [6]string{
	"Front View, Eye Level, Symmetrical",
	"45-Degree Angle, Dynamic Perspective",
	"Side Profile, Artistic Silhouette",
	"Knolling Layout (Flatlay), Organized Components",
	"Macro Detail Shot, Texture Focus",
	"Lifestyle In-Context, Real World Usage",
}

var ModelVariations = [6]Variation{
	{Label: "Portrait Shot", Prompt: "Close-up Portrait (Waist Up), focus on facial expression and connection with camera."},
	{Label: "Full Body", Prompt: "Wide Shot (Full Body), showcasing the complete outfit and environment interaction."},
	{Label: "Side Angle", Prompt: "Side Profile / 3/4 Angle, artistic perspective, edgy fashion magazine style."},
	{Label: "Low Angle", Prompt: "Low Angle Shot (Hero View), camera looking up slightly to make the subject look dominant/stylish."},
	{Label: "Detail Focus", Prompt: "Detail/Texture Shot, focus on specific fashion elements/products/accessories."},
	{Label: "Candid Motion", Prompt: "Dynamic/Candid Shot, captured in motion (walking/turning), natural lifestyle vibe."},
}

var Voices = []Voice{
	{ID: "Kore", Name: "Kore (Wanita)", Desc: "Suara wanita lembut & menenangkan"},
	{ID: "Fenrir", Name: "Fenrir (Pria)", Desc: "Suara pria berat & berwibawa"},
	{ID: "Puck", Name: "Puck (Pria)", Desc: "Suara pria muda & energik"},
	{ID: "Charon", Name: "Charon (Pria)", Desc: "Suara pria tua & bijaksana"},
	{ID: "Zephyr", Name: "Zephyr (Wanita)", Desc: "Suara wanita ceria & modern"},
	{ID: "Aoede", Name: "Aoede (Wanita)", Desc: "Suara wanita elegan & formal"},
}

var NarrativeTones = []string{
	"Tone: Humorous, clumsy, and lighthearted fun.",
	"Tone: Emotional, heartwarming, and touching.",
	"Tone: Fast-paced, dynamic action, and high energy.",
	"Tone: Mysterious, suspenseful, and slightly dark.",
	"Tone: Whimsical, magical, and dream-like.",
	"Tone: Slapstick comedy with exaggerated reactions.",
}

var VisualFocuses = []string{
	"Visual Focus: Low angle shots to make characters look heroic.",
	"Visual Focus: Close-ups on facial expressions and reactions.",
	"Visual Focus: Wide environmental shots to show the beautiful world.",
	"Visual Focus: Dynamic camera movements (panning, tracking).",
	"Visual Focus: High contrast lighting and dramatic shadows.",
}

var Languages = []Language{
	{
		Code:      "ID",
		Name:      "Bahasa Indonesia",
		writer:    "Bertindaklah sebagai Penulis Skenario Film Animasi Kelas Dunia (Pixar/Disney Level).\nTugasmu adalah membuat Alur Cerita 6 Scene yang SANGAT MENARIK berdasarkan input pengguna.",
		directive: "WRITE THE SCRIPT DIALOGUE AND DESCRIPTIONS IN BAHASA INDONESIA.",
		remainder: "(BUAT SCENE 2-6 DALAM BAHASA INDONESIA)",
	},
	{
		Code:      "EN",
		Name:      "English",
		writer:    "Act as a World-Class Animated Film Screenwriter (Pixar/Disney Level).\nYour task is to create a VERY ENGAGING 6-Scene Story Flow based on the user input.",
		directive: "WRITE THE SCRIPT DIALOGUE AND DESCRIPTIONS IN ENGLISH.",
		remainder: "(WRITE SCENES 2-6 IN ENGLISH)",
	},
	{
		Code:      "MY",
		Name:      "Bahasa Melayu",
		writer:    "Bertindak sebagai Penulis Skrip Filem Animasi Bertaraf Dunia (Tahap Pixar/Disney).\nTugas anda adalah menghasilkan Jalan Cerita 6 Babak yang SANGAT MENARIK berdasarkan input pengguna.",
		directive: "WRITE THE SCRIPT DIALOGUE AND DESCRIPTIONS IN BAHASA MELAYU (MALAYSIA).",
		remainder: "(TULIS BABAK 2-6 DALAM BAHASA MELAYU)",
	},
	{
		Code:      "JW",
		Name:      "Basa Jawa",
		writer:    "Dadia Penulis Skenario Film Animasi Kelas Donya (Level Pixar/Disney).\nTugasmu yaiku nggawe Alur Crita 6 Adegan sing APIK BANGET adhedhasar input pangguna.",
		directive: "WRITE THE SCRIPT DIALOGUE AND DESCRIPTIONS IN JAVANESE (BASA JAWA NGOKO).",
		remainder: "(GAWE ADEGAN 2-6 NGGUNAKAKE BASA JAWA)",
	},
	{
		Code:      "CN",
		Name:      "中文",
		writer:    "请扮演世界级动画电影编剧（皮克斯/迪士尼水准）。\n你的任务是根据用户输入创作一个非常吸引人的6场景故事。",
		directive: "WRITE THE SCRIPT DIALOGUE AND DESCRIPTIONS IN MANDARIN CHINESE (SIMPLIFIED).",
		remainder: "(用中文完成第2-6场)",
	},
}

func languageByCode(code string) Language {
	for _, l := range Languages {
		if l.Code == code {
			return l
		}
	}
	return Languages[0]
}

func templateByID(id string) Template {
	for _, t := range Templates {
		if t.ID == id {
			return t
		}
	}
	return Templates[0]
}

func characterByID(id string) Character {
	for _, c := range Characters {
		if c.ID == id {
			return c
		}
	}
	return Characters[0]
}

func themeByID(id string) NamedOption {
	for _, t := range StoryThemes {
		if t.ID == id {
			return t
		}
	}
	return StoryThemes[0]
}

func cartoonStyleByID(id string) Style {
	for _, s := range CartoonStyles {
		if s.ID == id {
			return s
		}
	}
	return CartoonStyles[0]
}

func modelPresetByID(id string) ModelPreset {
	for _, m := range ModelPresets {
		if m.ID == id {
			return m
		}
	}
	return ModelPresets[0]
}

func MicrostockCategoryByID(id string) Category {
	for _, c := range MicrostockCategories {
		if c.ID == id {
			return c
		}
	}
	return MicrostockCategories[0]
}
