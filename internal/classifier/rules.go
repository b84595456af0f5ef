package classifier

import "regexp"

// Category labels produced by the classifier. Topic categories additionally
// appear with a "_followup" suffix, personal ones with a sub-category suffix.
const (
	CategoryGibberish   = "gibberish"
	CategoryRecruitment = "recruitment"
	CategoryGeneral     = "general"
	CategoryUnclear     = "unclear_question"
)

// topicCategory declares the keyword table for one topic. Declaration order
// is the tie-break priority for generic topic matching.
type topicCategory struct {
	name     string
	keywords []string // single words score 1, phrases score 2
}

var topicCategories = []topicCategory{
	{
		name: "keahlian",
		keywords: []string{
			"skill", "keahlian", "teknologi", "menguasai", "bahasa pemrograman",
			"python", "java", "javascript", "react", "pandas", "numpy",
			"data science", "machine learning", "web development", "framework",
			"tools", "git", "database", "backend", "frontend",
		},
	},
	{
		name: "proyek",
		keywords: []string{
			"proyek", "project", "portfolio", "aplikasi", "solver", "algoritma",
			"rush hour", "little alchemy", "iq puzzler", "puzzle solver",
			"pathfinding", "datathon", "kompetisi", "lomba", "challenging",
			"github",
		},
	},
	{
		name: "pengalaman",
		keywords: []string{
			"pengalaman", "experience", "kerja", "magang", "internship",
			"asisten praktikum", "mengajar", "organisasi", "komunitas",
			"karir", "kuliah", "kampus", "itb", "semester",
		},
	},
	{
		name: "personal",
		keywords: []string{
			"hobi", "suka", "favorit", "musik", "lagu", "makanan", "buku",
			"novel", "film", "drama korea", "street food", "kuliner", "makan",
			"travel", "wisata", "baca", "membaca", "interests",
		},
	},
	{
		name: "profil",
		keywords: []string{
			"profil", "siapa", "nama", "tentang kamu", "background",
			"perkenalan", "asal", "jakarta", "mahasiswa", "biodata",
		},
	},
}

// personalSubcategory routes privacy-sensitive questions; first match wins
// and takes priority over every topic category.
type personalSubcategory struct {
	name     string
	keywords []string
}

var personalSubcategories = []personalSubcategory{
	{"relationship", []string{"pacar", "pacarmu", "gebetan", "jodoh", "nikah", "menikah", "girlfriend", "boyfriend", "crush", "jomblo"}},
	{"financial", []string{"gaji", "salary", "penghasilan", "bayaran", "kekayaan", "hutang", "tabungan"}},
	{"contact", []string{"nomor hp", "nomor telepon", "alamat rumah", "kontak pribadi", "whatsapp", "nomor handphone"}},
	{"age", []string{"umur", "usia", "tahun lahir", "tanggal lahir", "ulang tahun"}},
	{"family", []string{"orang tua", "ayah", "ibu", "keluarga", "saudara", "adik", "kakak"}},
	{"religion", []string{"agama", "religion", "ibadah", "kepercayaan"}},
	{"health", []string{"penyakit", "riwayat sakit", "kesehatan mental", "berat badan"}},
	{"appearance", []string{"ganteng", "jelek", "tampang", "wajah", "penampilan", "tinggi badan"}},
}

var recruitmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(kenapa|mengapa|why)\s+.*(hire|rekrut|recruit)`),
	regexp.MustCompile(`(?i)why\s+should\s+(i|we)\s+(hire|recruit)`),
	regexp.MustCompile(`(?i)(alasan|reason)\s+.*(hire|rekrut|merekrut)`),
	regexp.MustCompile(`(?i)layak\s+(di)?(hire|rekrut)`),
	regexp.MustCompile(`(?i)(keunggulan|kelebihan)\s+(kamu|anda)\s+.*(kandidat|candidate)`),
}

var followupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(terus|lalu|kemudian|trus)\b`),
	regexp.MustCompile(`(?i)^(selain itu|selain)\b`),
	regexp.MustCompile(`(?i)^(then what|what else|besides that|how about)`),
	regexp.MustCompile(`(?i)(gimana dengan|bagaimana dengan)`),
	regexp.MustCompile(`(?i)^(masa|masak|yakin|cuma itu|hanya itu|only)`),
	regexp.MustCompile(`(?i)(lebih detail|lebih lanjut|ceritakan lagi|tell me more)`),
}

// shortTermWhitelist lists always-valid short or consonant-heavy terms that
// the gibberish heuristic would otherwise flag.
var shortTermWhitelist = map[string]struct{}{
	"python": {}, "java": {}, "javascript": {}, "typescript": {}, "react": {},
	"next.js": {}, "nextjs": {}, "sql": {}, "css": {}, "html": {}, "http": {},
	"git": {}, "github": {}, "itb": {}, "api": {}, "nlp": {}, "figma": {},
	"numpy": {}, "pandas": {}, "jupyter": {},
}

// adjacency maps each topic to the categories a conversation naturally flows
// into; used by the context-relevance check for follow-ups.
var adjacency = map[string][]string{
	"keahlian":   {"proyek", "pengalaman"},
	"proyek":     {"keahlian", "pengalaman"},
	"pengalaman": {"keahlian", "proyek", "profil"},
	"personal":   {"profil"},
	"profil":     {"personal", "pengalaman"},
}
