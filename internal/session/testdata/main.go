package main

import "fmt"

func main() {
	fmt.Println(greeting("world"))
}

// greeting builds the message
func greet() {}
