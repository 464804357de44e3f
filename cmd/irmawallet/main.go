package main

import "github.com/privacybydesign/irmamobile/cmd/irmawallet/cmd"

func main() {
	cmd.Execute()
}
