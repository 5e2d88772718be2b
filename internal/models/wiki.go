package models

// WikiField names a column of the wiki name table.
type WikiField string

const (
	WikiFieldLocalized WikiField = "localized"
	WikiFieldJapanese  WikiField = "japanese"
	WikiFieldEnglish   WikiField = "english"
)

// WikiRow is one data row of the wiki name table, with the columns the service
// cares about resolved by header name.
type WikiRow struct {
	LocalizedName string
	JapaneseName  string
	EnglishName   string
	Cells         []string
}

// Field returns the value of a named column.
func (r WikiRow) Field(f WikiField) string {
	switch f {
	case WikiFieldJapanese:
		return r.JapaneseName
	case WikiFieldEnglish:
		return r.EnglishName
	default:
		return r.LocalizedName
	}
}
