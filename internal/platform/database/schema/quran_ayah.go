package schema

// QuranAyahTable represents the 'quran_ayah' table, both in the local cache
// and in the remote dataset.
type QuranAyahTable struct {
	Table           string
	ID              string
	SurahID         string
	Ayah            string
	Arabic          string
	Transliteration string
	Page            string
	Juz             string
	Position        string
	RowNumberStart  string
	RowNumberEnd    string
	QuarterHizb     string
	Manzil          string
	NoTashkeel      string
	HasAsbabun      string
	WordsArray      string
}

// QuranAyah is the schema definition for quran_ayah
var QuranAyah = QuranAyahTable{
	Table:           "quran_ayah",
	ID:              "id",
	SurahID:         "surah_id",
	Ayah:            "ayah",
	Arabic:          "arabic",
	Transliteration: "transliteration",
	Page:            "page",
	Juz:             "juz",
	Position:        "position",
	RowNumberStart:  "row_number_start",
	RowNumberEnd:    "row_number_end",
	QuarterHizb:     "quarter_hizb",
	Manzil:          "manzil",
	NoTashkeel:      "no_tashkeel",
	HasAsbabun:      "has_asbabun",
	WordsArray:      "words_array",
}

// Columns returns every column in scan order.
func (t QuranAyahTable) Columns() []string {
	return []string{
		t.ID, t.SurahID, t.Ayah, t.Arabic, t.Transliteration, t.Page, t.Juz,
		t.Position, t.RowNumberStart, t.RowNumberEnd, t.QuarterHizb, t.Manzil,
		t.NoTashkeel, t.HasAsbabun, t.WordsArray,
	}
}
