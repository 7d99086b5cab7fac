package main

import "github.com/PasqualeSorrentino/ddditserver/cmd/dddit/cmd"

func main() {
	cmd.Execute()
}
