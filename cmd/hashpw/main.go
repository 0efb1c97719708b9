// hashpw genera el hash de una contraseña para insertarlo en users.password_hash.
//
// Uso:
//
//	go run ./cmd/hashpw -password 'secreto'
//	echo 'secreto' | go run ./cmd/hashpw
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jhoicas/stock-tracker/pkg/password"
)

func main() {
	plain := flag.String("password", "", "contraseña en texto plano (si se omite se lee de stdin)")
	flag.Parse()

	if err := run(*plain, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hashpw:", err)
		os.Exit(1)
	}
}

func run(plain string, in io.Reader, out io.Writer) error {
	if plain == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("leer stdin: %w", err)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		return fmt.Errorf("contraseña vacía")
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Hashed password: %s\n", hash)
	return err
}
