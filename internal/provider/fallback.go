package provider

import "strings"

// TemplateResponse returns the canned answer for a category. It is the last
// resort when every AI provider fails, and the standard answer for control
// categories where generation is skipped entirely (gibberish, privacy
// redirects, unclear questions).
func TemplateResponse(category string) string {
	if strings.HasPrefix(category, "personal_") {
		return "maaf, itu masuk ranah privasi yang tidak saya share di sini. " +
			"tapi saya senang cerita tentang keahlian teknis, proyek, atau hobi saya - silakan tanya!"
	}

	switch baseCategory(category) {
	case "gibberish":
		return "hmm, saya kurang menangkap maksud pertanyaannya. " +
			"coba tanyakan tentang keahlian programming, proyek, atau hal personal saya ya."
	case "unclear_question":
		return "bisa dijelaskan lebih spesifik? saya siap membantu dengan informasi tentang " +
			"pengalaman teknis, proyek, atau hal personal saya."
	case "recruitment":
		return "saya kombinasi technical skills dan learning attitude: 2 tahun web development, " +
			"1 tahun fokus data science, ditambah pengalaman mengajar sebagai asisten praktikum. " +
			"project seperti rush hour puzzle solver menunjukkan kemampuan algorithmic problem solving saya. " +
			"yang terpenting, saya cepat belajar dan senang berbagi knowledge dengan tim."
	case "keahlian":
		return "keahlian utama saya python untuk data science, java untuk algorithmic programming, " +
			"dan next.js untuk web development. silakan tanya lebih detail tentang salah satunya!"
	case "proyek":
		return "project favorit saya rush hour puzzle solver dengan multiple pathfinding algorithms " +
			"seperti a*, dijkstra, dan ucs. ada juga little alchemy search dan iq puzzler pro solver."
	case "pengalaman":
		return "saya aktif sebagai asisten praktikum di itb dan involved di komunitas teknologi kampus. " +
			"pengalaman mengajar ini melatih komunikasi teknis saya."
	case "personal":
		return "hobi saya membaca novel fantasy seperti omniscient reader viewpoint, hunting street food " +
			"di jakarta, dan dengerin musik oldies kayak air supply dan glenn fredly."
	case "profil":
		return "halo! saya danendra, mahasiswa teknik informatika itb yang passionate di bidang " +
			"data science dan algoritma. ada yang bisa saya bantu tentang pengalaman atau proyek saya?"
	default:
		return "maaf, saya mengalami kendala teknis saat ini. bisa coba pertanyaan yang lebih spesifik " +
			"tentang pengalaman teknis, proyek, atau hal personal saya?"
	}
}
