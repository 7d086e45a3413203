package model

// Credential is the persisted admin login record. The salt is stored hex
// encoded and the hash is a hex PBKDF2-SHA512 derivation of the password
// with that salt, matching records written by earlier deployments.
type Credential struct {
	Username string `json:"username"`
	Salt     string `json:"salt"`
	Hash     string `json:"hash"`
}
