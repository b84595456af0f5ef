package knowledge

// FallbackCorpus returns the built-in knowledge base used when no portfolio
// data file can be loaded.
func FallbackCorpus() []Document {
	return []Document{
		{
			ID:       "profil_danendra",
			Category: "profil",
			Title:    "profil danendra shafi athallah",
			Content: "nama saya danendra shafi athallah, mahasiswa teknik informatika itb semester 4 dari jakarta. " +
				"passionate di bidang data science dan algoritma dengan pengalaman 2 tahun web development. " +
				"saya active sebagai asisten praktikum dan involved di tech community.",
			Keywords: []string{"danendra", "profil", "itb", "jakarta", "data science", "algoritma"},
		},
		{
			ID:       "keahlian_python",
			Category: "keahlian",
			Title:    "python & data science",
			Content: "python adalah bahasa utama saya untuk analisis data dan machine learning. " +
				"saya menguasai pandas untuk data manipulation, scikit-learn untuk machine learning models, " +
				"matplotlib untuk visualization, dan numpy untuk numerical computing. " +
				"python juga saya pakai untuk backend development.",
			Keywords: []string{"python", "data science", "pandas", "machine learning", "numpy"},
		},
		{
			ID:       "keahlian_teknis",
			Category: "keahlian",
			Title:    "keahlian programming dan teknologi",
			Content: "keahlian utama saya meliputi python untuk data science dan machine learning, " +
				"java untuk algorithmic programming, next.js dan react untuk web development, " +
				"plus various tools seperti git, jupyter notebook, dan figma untuk design.",
			Keywords: []string{"python", "java", "next.js", "react", "web development", "git"},
		},
		{
			ID:       "proyek_highlight",
			Category: "proyek",
			Title:    "project highlights dan achievements",
			Content: "project notable termasuk rush hour puzzle solver dengan multiple pathfinding algorithms " +
				"(a*, dijkstra, ucs), little alchemy search algorithm dengan graph theory, " +
				"dan iq puzzler pro solver menggunakan backtracking. " +
				"juga active di datathon ui dan various coding competitions.",
			Keywords: []string{"rush hour", "puzzle solver", "algoritma", "pathfinding", "little alchemy", "datathon"},
		},
		{
			ID:       "pengalaman_akademik",
			Category: "pengalaman",
			Title:    "pengalaman akademik dan organisasi",
			Content: "sebagai asisten praktikum di itb saya membantu mahasiswa memahami dasar pemrograman dan " +
				"struktur data. di luar akademik saya involved di komunitas teknologi kampus dan pernah " +
				"jadi panitia beberapa event coding. pengalaman mengajar ini melatih komunikasi teknis saya.",
			Keywords: []string{"asisten praktikum", "itb", "mengajar", "komunitas", "organisasi"},
		},
		{
			ID:       "personal_interests",
			Category: "personal",
			Title:    "hobi dan interests personal",
			Content: "saya passionate reader dengan preference ke fantasy novels seperti omniscient reader viewpoint. " +
				"street food enthusiast yang suka explore kuliner jakarta. " +
				"music taste cenderung oldies seperti air supply dan glenn fredly. " +
				"untuk relaxation biasanya nonton film atau drama korea.",
			Keywords: []string{"membaca", "novel", "fantasy", "street food", "kuliner", "musik", "oldies", "film"},
		},
	}
}
