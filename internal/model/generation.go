package model

import "time"

// Generation is one persisted result of the prompt → model → code flow: the
// user's original prompt and target language paired with the sanitized code the
// model produced. Rows are immutable — there is no update or delete path.
//
// UserID references an existing User (enforced with a foreign key). Prompt and
// Language are stored trimmed; Code is stored after fence stripping, never raw.
type Generation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Prompt    string    `json:"prompt"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}
