// Interactive menu client for a MovieCat server. It prompts for an
// operation, sends the operation's fields in the order the protocol demands,
// and prints the server's raw response text.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/moviecat/moviecat/pkg/catalog"
	"github.com/moviecat/moviecat/pkg/client"
	"github.com/moviecat/moviecat/pkg/config"
)

func main() {
	cfg := config.LoadClientConfig()
	if len(os.Args) > 1 {
		cfg.Addr = os.Args[1]
	}

	c, err := client.NewWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	fmt.Printf("Connected to MovieCat server at %s\n", cfg.Addr)

	stdin := bufio.NewReader(os.Stdin)
	for {
		printMenu()
		option := readLine(stdin, "Choose an option: ")

		var resp string
		var err error

		switch option {
		case "0":
			fmt.Println("Closing connection...")
			return
		case "1":
			title := readLine(stdin, "Movie title: ")
			director := readLine(stdin, "Director: ")
			year, _ := strconv.Atoi(readLine(stdin, "Release year (YYYY): "))
			genres := readLine(stdin, "Genres (semicolon-separated): ")
			resp, err = c.Register(title, director, year, catalog.SplitGenres(genres))
		case "2":
			id, _ := strconv.Atoi(readLine(stdin, "Movie ID: "))
			genre := readLine(stdin, "New genre: ")
			resp, err = c.AddGenre(id, genre)
		case "3":
			id, _ := strconv.Atoi(readLine(stdin, "Movie ID: "))
			resp, err = c.Remove(id)
		case "4":
			resp, err = c.ListTitles()
		case "5":
			resp, err = c.ListMovies()
		case "6":
			id, _ := strconv.Atoi(readLine(stdin, "Movie ID: "))
			resp, err = c.GetMovie(id)
		case "7":
			genre := readLine(stdin, "Genre: ")
			resp, err = c.ListByGenre(genre)
		default:
			fmt.Println("Unknown option, pick 0-7.")
			continue
		}

		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		fmt.Println()
		fmt.Println(resp)
	}
}

func printMenu() {
	fmt.Println()
	fmt.Println("=== MovieCat ===")
	fmt.Println("1. Register a new movie")
	fmt.Println("2. Add a genre to a movie")
	fmt.Println("3. Remove a movie by ID")
	fmt.Println("4. List all movie titles with IDs")
	fmt.Println("5. List all movie info")
	fmt.Println("6. Show one movie")
	fmt.Println("7. List movies by genre")
	fmt.Println("0. Close connection")
}

func readLine(r *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := r.ReadString('\n')
	if err != nil {
		return strings.TrimSpace(line)
	}
	return strings.TrimRight(line, "\r\n")
}
