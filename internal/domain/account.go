package domain

type Account struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Balance Money  `json:"sum"`
}

// FindAccount returns the account with the given id from a list response.
func FindAccount(accounts []Account, id ID) (Account, bool) {
	for _, account := range accounts {
		if account.ID == id {
			return account, true
		}
	}
	return Account{}, false
}
