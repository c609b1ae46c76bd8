// Package commands implements the securechat CLI.
//
// Every command builds its dependencies through internal/app and operates
// on the local data directory; a chatd server URL switches the key
// directory and push transport to the remote implementations.
package commands
