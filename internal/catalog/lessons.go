package catalog

import lsync "lsync-go/internal/sync"

// builtinLessons returns a fresh copy of the bundled lesson content.
// The full production catalog lives in authored YAML files; these
// built-ins keep the tool useful with nothing configured.
func builtinLessons() []lsync.Lesson {
	return []lsync.Lesson{
		{
			Title:       "מבוא לעולם הסייבר",
			Description: "מה זה בכלל סייבר ולמה חשוב להכיר אותו",
			Difficulty:  "beginner",
			Duration:    "20 דקות",
			Icon:        "shield",
			Color:       "#4f86f7",
			Slides: []lsync.Slide{
				{ID: "intro-1", Order: 1, Type: "intro", Title: "ברוכים הבאים",
					Content: map[string]any{"text": "היום נלמד מה זה עולם הסייבר ואיך שומרים על עצמנו ברשת"}},
				{ID: "intro-2", Order: 2, Type: "content", Title: "מה זה אינטרנט?",
					Content: map[string]any{"text": "האינטרנט הוא רשת ענקית שמחברת מחשבים מכל העולם", "image": "network.png"}},
				{ID: "intro-3", Order: 3, Type: "content", Title: "מי הם ההאקרים?",
					Content: map[string]any{"text": "יש האקרים טובים שעוזרים להגן, ויש כאלה שמנסים לפרוץ"}},
				{ID: "intro-4", Order: 4, Type: "quiz", Title: "בואו נבדוק",
					Content: map[string]any{
						"question": "מה עושה האקר כובע לבן?",
						"options":  []any{"פורץ למחשבים בשביל כסף", "עוזר לארגונים למצוא חולשות", "שולח וירוסים"},
						"answer":   1,
					}},
				{ID: "intro-5", Order: 5, Type: "summary", Title: "סיכום",
					Content: map[string]any{"text": "למדנו מה זה סייבר ומי פועל בו. בשיעור הבא: סיסמאות חזקות!"}},
			},
		},
		{
			Title:       "סיסמאות חזקות",
			Description: "איך בוחרים סיסמה שאף אחד לא ינחש",
			Difficulty:  "beginner",
			Duration:    "15 דקות",
			Icon:        "key",
			Color:       "#f7b24f",
			Slides: []lsync.Slide{
				{ID: "pass-1", Order: 1, Type: "intro", Title: "הסוד שלך",
					Content: map[string]any{"text": "סיסמה היא כמו מפתח לבית - לא נותנים אותה לאף אחד"}},
				{ID: "pass-2", Order: 2, Type: "content", Title: "סיסמה חלשה מול חזקה",
					Content: map[string]any{"bad": "123456", "good": "Tapu7!zebra$Or", "text": "סיסמה חזקה היא ארוכה ומשלבת אותיות, מספרים וסימנים"}},
				{ID: "pass-3", Order: 3, Type: "game", Title: "בנו סיסמה",
					Content: map[string]any{"kind": "password-builder", "minScore": 3}},
				{ID: "pass-4", Order: 4, Type: "quiz", Title: "שאלה",
					Content: map[string]any{
						"question": "למי מותר לדעת את הסיסמה שלך?",
						"options":  []any{"לחבר הכי טוב", "לכולם", "רק לי ולהורים שלי"},
						"answer":   2,
					}},
			},
		},
		{
			Title:       "גלישה בטוחה",
			Description: "לזהות אתרים מסוכנים והודעות חשודות",
			Difficulty:  "intermediate",
			Duration:    "25 דקות",
			Icon:        "globe",
			Color:       "#5cc97a",
			Slides: []lsync.Slide{
				{ID: "surf-1", Order: 1, Type: "intro", Title: "יוצאים לרשת",
					Content: map[string]any{"text": "הרשת מלאה דברים נהדרים, אבל צריך לדעת לזהות סכנות"}},
				{ID: "surf-2", Order: 2, Type: "content", Title: "מה זה פישינג?",
					Content: map[string]any{"text": "הודעה שמתחזה למישהו אחר כדי לגנוב פרטים", "image": "phishing.png"}},
				{ID: "surf-3", Order: 3, Type: "content", Title: "סימנים מחשידים",
					Content: map[string]any{"items": []any{"שגיאות כתיב מוזרות", "כתובת אתר משונה", "לחץ לפעול מהר"}}},
				{ID: "surf-4", Order: 4, Type: "game", Title: "חשוד או בטוח?",
					Content: map[string]any{"kind": "sort-cards", "cards": []any{"הודעה מהבנק עם קישור מוזר", "אתר בית הספר", "זכית בפרס! לחץ כאן"}}},
				{ID: "surf-5", Order: 5, Type: "quiz", Title: "בדיקה אחרונה",
					Content: map[string]any{
						"question": "קיבלתם הודעה שזכיתם בטלפון חדש. מה עושים?",
						"options":  []any{"לוחצים על הקישור מהר", "מספרים להורים ולא לוחצים", "שולחים לחברים"},
						"answer":   1,
					}},
				{ID: "surf-6", Order: 6, Type: "summary", Title: "סיכום",
					Content: map[string]any{"text": "עכשיו אתם יודעים לזהות הודעות חשודות. גלישה נעימה ובטוחה!"}},
			},
		},
	}
}
