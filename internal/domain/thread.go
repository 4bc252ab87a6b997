package domain

// ThreadID derives the chat thread id for a pair of users. The greater id
// (by lexicographic order) comes first so both participants compute the
// same id with no lookup or coordination.
//
// Precondition: a != b. Passing equal ids still yields a deterministic
// (degenerate) id; rejecting self-chat is the caller's job.
func ThreadID(a, b string) string {
	if a < b {
		a, b = b, a
	}

	return a + "_" + b
}
