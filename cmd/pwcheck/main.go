// pwcheck analyzes a password's strength locally and, unless disabled,
// checks it against breach corpora through the k-anonymity range endpoint.
// The password is read from stdin so it never lands in shell history or
// process lists; only 5 hex characters of its SHA-1 ever leave the machine.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"protetor/internal/pwned"
	"protetor/internal/strength"
)

func main() {
	endpoint := flag.String("endpoint", "https://protetordigital.com/api/pwned-password", "range proxy endpoint")
	offline := flag.Bool("offline", false, "skip the breach corpus check")
	generate := flag.Int("generate", 0, "generate a password of this length and exit")
	flag.Parse()

	if *generate > 0 {
		pw, err := strength.Generate(*generate, strength.GenerateOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate:", err)
			os.Exit(1)
		}
		fmt.Println(pw)
		return
	}

	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	password = strings.TrimRight(password, "\r\n")

	report := strength.Analyze(password)
	if report == nil {
		fmt.Fprintln(os.Stderr, "empty password")
		os.Exit(1)
	}
	fmt.Printf("Strength:  %s (%d/4)\n", report.Label, report.Score)
	fmt.Printf("Entropy:   ~%d bits\n", report.EntropyBits)
	fmt.Printf("Crack time: %s (offline, 10^10 guesses/s)\n", report.CrackTime)
	for _, w := range report.Warnings {
		fmt.Printf("Warning:   %s\n", w)
	}
	for _, s := range report.Suggestions {
		fmt.Printf("Suggest:   %s\n", s)
	}

	if *offline {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	res, err := pwned.NewChecker(*endpoint).Check(ctx, password)
	switch {
	case err != nil:
		fmt.Println("Breaches:  could not verify (network error)")
	case !res.Checked:
		fmt.Println("Breaches:  not checked (password too short)")
	case res.Count > 0:
		fmt.Printf("Breaches:  seen %d times in breach corpora, do not use\n", res.Count)
	default:
		fmt.Println("Breaches:  not found in known breach corpora")
	}
}
