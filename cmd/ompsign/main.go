// ompsign signs and sends a POST /objects request, or generates a key pair
// ready to paste into the server and client environments.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ompserver/pkg/sigclient"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ompsign", flag.ContinueOnError)
	host := fs.String("host", "http://127.0.0.1:8080", "server base URL")
	path := fs.String("path", "/objects", "request path")
	seed := fs.String("seed-b64u", os.Getenv("SEED_B64U"), "base64url ed25519 seed")
	keyID := fs.String("keyid", "sig1", "key identifier declared in the headers")
	label := fs.String("label", "sig1", "signature label")
	namespace := fs.String("namespace", "ns", "object namespace")
	content := fs.String("json", `{"x":1}`, "object content as JSON")
	genKey := fs.Bool("gen-key", false, "generate a key pair and print exports")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	if *genKey {
		return printGeneratedKey()
	}

	if *seed == "" {
		fmt.Fprintln(os.Stderr, "SEED_B64U is required (or pass --gen-key first).")
		return 2
	}
	priv, err := sigclient.ParsePrivateKey(*seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid seed: %v\n", err)
		return 2
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(*content), &payload); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --json: %v\n", err)
		return 2
	}

	url := strings.TrimRight(*host, "/") + *path
	base := sigclient.SigningBase(http.MethodPost, url)

	body, err := json.Marshal(map[string]any{"namespace": *namespace, "content": payload})
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode body: %v\n", err)
		return 1
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build request: %v\n", err)
		return 1
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Signature-Input", sigclient.InputHeader(*label, time.Now().Unix(), *keyID))
	req.Header.Set("Signature", sigclient.SignatureHeader(*label, sigclient.Sign(priv, base)))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	fmt.Println("Status:", resp.StatusCode)
	respBody, _ := io.ReadAll(resp.Body)
	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(respBody))
	}
	if resp.StatusCode >= 400 {
		return 1
	}
	return 0
}

func printGeneratedKey() int {
	pub, priv, err := sigclient.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		return 1
	}
	fmt.Println("# Add these to the server env:")
	fmt.Println("export OMP_SIG_MODE=strict")
	fmt.Println("export OMP_SIG_KEYID=sig1")
	fmt.Printf("export OMP_SIG_ED25519_PUB=%s\n", sigclient.EncodePublicKey(pub))
	fmt.Println("# Client seed (KEEP PRIVATE):")
	fmt.Printf("export SEED_B64U=%s\n", sigclient.EncodeSeed(priv))
	return 0
}
