// genpass generates bcrypt password hashes for the users database.
//
// Usage:
//
//	genpass --password "my secret"
//
// The printed hash goes into the password field of a users.json record.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/smartgic/ovos-bridge/internal/auth"
)

func main() {
	password := flag.String("password", "", "plaintext password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: genpass --password <plaintext>")
		os.Exit(2)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
