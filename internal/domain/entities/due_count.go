package entities

// UserDueCount is a per-user count of words due for review, produced by
// joining review state against the user's reminder preference.
type UserDueCount struct {
	UserID int64
	Due    int
}
