package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/alphabot-ai/remarks/internal/client"
)

var authors = []string{"Ada Lovelace", "Grace Hopper", "Alan Turing", "Edsger Dijkstra", "Barbara Liskov"}

var remarks = []string{
	"Great post! This is exactly what I was looking for.",
	"I disagree with the premise here.",
	"Has anyone benchmarked this? I'd love to see numbers.",
	"This reminds me of the early days of the internet.",
	"Interesting take. I wonder how this scales.",
	"I've been working on something similar. Happy to collaborate!",
	"Can you share more details about the implementation?",
	"Not sure I agree, but appreciate the perspective.",
	"Would love to see a follow-up on this topic.",
	"The code looks clean. Nice work!",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Remarks server URL")
	count := flag.Int("comments", 25, "Number of comments to post")
	flag.Parse()

	log.Printf("Seeding %s...", *baseURL)

	helper := client.NewTestHelper(*baseURL)
	var clients []*client.Client
	for _, name := range authors {
		c, err := helper.CreateAuthenticatedClient(name)
		if err != nil {
			log.Fatalf("register %s: %v", name, err)
		}
		log.Printf("✓ Registered %s", name)
		clients = append(clients, c)
	}

	var posted, edited int
	for i := 0; i < *count; i++ {
		idx := rand.Intn(len(clients))
		c := clients[idx]
		created, err := c.PostComment(remarks[rand.Intn(len(remarks))])
		if err != nil {
			log.Printf("✗ Failed to post: %v", err)
			continue
		}
		posted++
		log.Printf("✓ Comment #%d (by %s)", created.ID, authors[idx])

		// Some comments get revised to build up history.
		if rand.Float32() < 0.3 {
			text := strings.TrimSuffix(created.Comment, ".") + " (edited)"
			if _, err := c.EditComment(created.ID, text); err != nil {
				log.Printf("✗ Failed to edit #%d: %v", created.ID, err)
				continue
			}
			edited++
		}
		time.Sleep(20 * time.Millisecond)
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Authors:  %d\n", len(authors))
	fmt.Printf("Comments: %d (%d edited)\n", posted, edited)
	fmt.Printf("Password: %s\n", client.TestPassword)
}
