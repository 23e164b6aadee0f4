package main

import "github.com/RyanBlaney/sonido-spectrogram/cmd"

func main() {
	cmd.Execute()
}
