package classifier_test

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/portfolio-assistant/backend/internal/classifier"
	"github.com/portfolio-assistant/backend/internal/session"
	"github.com/portfolio-assistant/backend/internal/textproc"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", true)
}

func newClassifier() *classifier.Classifier {
	return classifier.New(textproc.NewNormalizer(), testLogger())
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	manager := session.NewManager(session.DefaultConfig(), testLogger())
	sess, _ := manager.GetOrCreate("")
	return sess
}

func TestClassifyGibberish(t *testing.T) {
	c := newClassifier()

	cases := []string{
		"asdf qwerty zxcvbn",
		"xyzzy",
		"hjkl hjkl",
	}
	for _, query := range cases {
		assert.Equal(t, classifier.CategoryGibberish, c.Classify(query, nil), "query: %s", query)
	}
}

func TestClassifyWhitelistBeatsGibberish(t *testing.T) {
	c := newClassifier()

	// "python" alone would trip the single-word heuristic without the
	// whitelist.
	got := c.Classify("python?", nil)
	assert.NotEqual(t, classifier.CategoryGibberish, got)
	assert.Equal(t, "keahlian", got)
}

func TestClassifyRecruitment(t *testing.T) {
	c := newClassifier()

	cases := []string{
		"kenapa kami harus hire kamu?",
		"why should we hire you",
		"apa alasan perusahaan merekrut kamu",
	}
	for _, query := range cases {
		assert.Equal(t, classifier.CategoryRecruitment, c.Classify(query, nil), "query: %s", query)
	}
}

func TestClassifyPersonalSensitive(t *testing.T) {
	c := newClassifier()

	cases := map[string]string{
		"siapa nama pacarmu?":          "personal_relationship",
		"berapa gaji kamu sekarang":    "personal_financial",
		"berapa umur kamu":             "personal_age",
		"apa agama kamu kalau boleh":   "personal_religion",
		"boleh minta nomor hp kamu ga": "personal_contact",
	}
	for query, want := range cases {
		assert.Equal(t, want, c.Classify(query, nil), "query: %s", query)
	}
}

func TestClassifyPersonalOutranksTopics(t *testing.T) {
	c := newClassifier()

	// "siapa" and "nama" alone would score profil; the sensitive keyword
	// must win.
	assert.Equal(t, "personal_relationship", c.Classify("siapa nama pacar kamu", nil))
}

func TestClassifyTopics(t *testing.T) {
	c := newClassifier()

	cases := map[string]string{
		"apa skill programming kamu":           "keahlian",
		"ceritakan proyek rush hour kamu dong": "proyek",
		"gimana pengalaman magang kamu":        "pengalaman",
		"apa makanan favorit kamu":             "personal",
		"siapa kamu sebenarnya, perkenalan":    "profil",
	}
	for query, want := range cases {
		assert.Equal(t, want, c.Classify(query, nil), "query: %s", query)
	}
}

func TestClassifyUnclearAndGeneral(t *testing.T) {
	c := newClassifier()

	assert.Equal(t, classifier.CategoryUnclear, c.Classify("bagaimana kabarmu?", nil))
	assert.Equal(t, classifier.CategoryGeneral, c.Classify("bagaimana cara kamu belajar hal baru setiap hari", nil))
}

func TestClassifyFollowup(t *testing.T) {
	c := newClassifier()
	sess := newSession(t)

	sess.RecordQuestion("apa keahlian kamu")
	sess.RecordCategory("keahlian")

	got := c.Classify("terus gimana dengan yang lain?", sess)
	assert.Equal(t, "keahlian_followup", got)
}

func TestClassifyFollowupNeedsHistory(t *testing.T) {
	c := newClassifier()
	sess := newSession(t)

	// no prior question recorded
	got := c.Classify("terus gimana dengan yang lain?", sess)
	assert.NotEqual(t, "keahlian_followup", got)
}

func TestClassifyFollowupRejectsTopicJump(t *testing.T) {
	c := newClassifier()
	sess := newSession(t)

	sess.RecordQuestion("apa makanan favorit kamu")
	sess.RecordCategory("personal")

	// continuation phrasing but clearly a keahlian question, and keahlian
	// does not follow from personal
	got := c.Classify("terus skill python kamu gimana", sess)
	assert.NotEqual(t, "personal_followup", got)
}

func TestClassifyFollowupContextDecay(t *testing.T) {
	c := newClassifier()
	sess := newSession(t)

	sess.RecordQuestion("apa keahlian kamu")
	sess.RecordCategory("keahlian")
	sess.RecordCategory("proyek")
	sess.RecordCategory("pengalaman")
	sess.RecordCategory("personal")
	sess.RecordCategory("profil")

	// too many topic hops: context is spent
	got := c.Classify("terus gimana dengan yang lain?", sess)
	assert.NotEqual(t, "profil_followup", got)
}

func TestClassifyFollowupStaleTransition(t *testing.T) {
	c := classifier.New(textproc.NewNormalizer(), testLogger(),
		classifier.WithStaleness(time.Millisecond))
	sess := newSession(t)

	sess.RecordQuestion("apa keahlian kamu")
	sess.RecordCategory("keahlian")
	sess.RecordCategory("proyek")
	time.Sleep(10 * time.Millisecond)

	// the last topic hop is long past: context is spent
	got := c.Classify("terus gimana dengan yang lain?", sess)
	assert.NotEqual(t, "proyek_followup", got)
}

func TestClassifyFollowupFreshTransition(t *testing.T) {
	c := classifier.New(textproc.NewNormalizer(), testLogger(),
		classifier.WithStaleness(time.Minute))
	sess := newSession(t)

	sess.RecordQuestion("apa keahlian kamu")
	sess.RecordCategory("keahlian")
	sess.RecordCategory("proyek")

	got := c.Classify("terus gimana dengan yang lain?", sess)
	assert.Equal(t, "proyek_followup", got)
}

func TestClassifyFollowupTransitionBudget(t *testing.T) {
	c := classifier.New(textproc.NewNormalizer(), testLogger(),
		classifier.WithMaxTransitions(1))
	sess := newSession(t)

	sess.RecordQuestion("apa keahlian kamu")
	sess.RecordCategory("keahlian")
	sess.RecordCategory("proyek")
	sess.RecordCategory("pengalaman")

	got := c.Classify("terus gimana dengan yang lain?", sess)
	assert.NotEqual(t, "pengalaman_followup", got)
}

func TestRelated(t *testing.T) {
	assert.True(t, classifier.Related("keahlian", "keahlian"))
	assert.True(t, classifier.Related("keahlian", "proyek"))
	assert.True(t, classifier.Related("keahlian_followup", "keahlian"))
	assert.False(t, classifier.Related("keahlian", "personal"))
}

func TestBaseCategory(t *testing.T) {
	assert.Equal(t, "keahlian", classifier.BaseCategory("keahlian_followup"))
	assert.Equal(t, "personal", classifier.BaseCategory("personal_relationship"))
	assert.Equal(t, "proyek", classifier.BaseCategory("proyek"))
}

func TestIsTopic(t *testing.T) {
	assert.True(t, classifier.IsTopic("keahlian"))
	assert.True(t, classifier.IsTopic("proyek_followup"))
	assert.True(t, classifier.IsTopic("general"))
	assert.False(t, classifier.IsTopic(classifier.CategoryGibberish))
	assert.False(t, classifier.IsTopic(classifier.CategoryRecruitment))
}
