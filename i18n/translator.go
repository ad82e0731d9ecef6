package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "type" or "declared").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "malformed_input":
			return "入力の形が不正です"
		case "invalid_type":
			return "型が不正です"
		case "unsupported_value":
			return "シリアライズできない値です"
		case "missing_version":
			return "バージョンタグがありません"
		case "migration_path_missing":
			return "マイグレーション経路がありません"
		case "construction_failure":
			return "インスタンス生成に失敗しました"
		case "unknown_key":
			return "未知のキーです"
		case "reserved_key":
			return "予約済みのキーです"
		case "max_depth":
			return "ネストが深すぎます"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "malformed_input":
			return "malformed input"
		case "invalid_type":
			return "invalid type"
		case "unsupported_value":
			return "value is not serializable"
		case "missing_version":
			return "version tag missing"
		case "migration_path_missing":
			return "no migration path to current version"
		case "construction_failure":
			return "constructing instance failed"
		case "unknown_key":
			return "unknown key"
		case "reserved_key":
			return "reserved key"
		case "max_depth":
			return "tree too deeply nested"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
