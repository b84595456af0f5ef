package provider

import (
	"context"
	"strings"
)

// LLMProvider defines the interface for AI model integration.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Exchange is one past question/answer pair included for conversational
// continuity.
type Exchange struct {
	Question string
	Response string
}

const basePersona = "kamu adalah ai assistant untuk danendra shafi athallah, mahasiswa teknik informatika itb " +
	"yang passionate di bidang data science dan algoritma.\n" +
	"personality: friendly, technical tapi approachable, humble tapi confident tentang skills.\n" +
	"guidelines:\n" +
	"- jawab dalam bahasa indonesia yang natural dan conversational\n" +
	"- gunakan informasi dari knowledge base sebagai referensi utama\n" +
	"- jangan claim hal yang tidak ada di knowledge base\n" +
	"- kalau tidak tahu, bilang dengan jujur dan suggest pertanyaan alternatif"

// categoryGuidance adds per-category instructions to the persona prompt.
var categoryGuidance = map[string]string{
	"keahlian":    "fokus pada technical skills dan teknologi yang dikuasai, dengan contoh konkret.",
	"proyek":      "ceritakan project experience dengan detail teknis: algoritma, tools, dan challenge yang dihadapi.",
	"pengalaman":  "fokus pada pengalaman akademik, organisasi, dan mengajar.",
	"personal":    "sharing tentang hobi dan interests dengan storytelling approach yang engaging.",
	"profil":      "perkenalkan danendra secara singkat dan encourage user untuk bertanya lebih lanjut.",
	"recruitment": "berikan pitch profesional: kombinasi technical skills, learning attitude, dan pengalaman nyata.",
}

// BuildPrompt assembles the full generation prompt from the persona, the
// retrieved knowledge context, recent conversation turns and the question.
func BuildPrompt(question, ragContext, category string, history []Exchange) string {
	var b strings.Builder
	b.WriteString(basePersona)

	if guidance, ok := categoryGuidance[baseCategory(category)]; ok {
		b.WriteString("\n")
		b.WriteString(guidance)
	}

	if ragContext != "" {
		b.WriteString("\n\nInformasi relevan dari knowledge base:\n")
		b.WriteString(ragContext)
	}

	if len(history) > 0 {
		b.WriteString("\n\nKonteks percakapan sebelumnya:\n")
		start := 0
		if len(history) > 3 {
			start = len(history) - 3
		}
		for _, item := range history[start:] {
			b.WriteString("User: ")
			b.WriteString(item.Question)
			b.WriteString("\nAssistant: ")
			b.WriteString(item.Response)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\nPertanyaan user:\n")
	b.WriteString(question)
	b.WriteString("\n\nJawab dengan natural dan sesuai personality yang telah dijelaskan:\n")
	return b.String()
}

func baseCategory(category string) string {
	category = strings.TrimSuffix(category, "_followup")
	if strings.HasPrefix(category, "personal_") {
		return "personal"
	}
	return category
}
