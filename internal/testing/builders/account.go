package builders

// Account is anything with a transaction address, such as *testing.Account.
type Account interface {
	Human() string
}

func addresses(accounts []Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.Human()
	}
	return out
}
