package main

import "github.com/GrooVITy-Community/groovity-backend/cmd"

func main() {
	cmd.Execute()
}
