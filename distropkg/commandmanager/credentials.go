package commandmanager

// Credentials holds everything needed to reach and elevate on a host.
type Credentials struct {
	User           string
	Password       string
	KeyPassphrase  string
	SudoPassword   string
	KnownHostsFile string
}
