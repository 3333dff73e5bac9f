// Package promptvault provides an embedded Go client for the promptvault
// prompt store, backed by Redis with search modules.
//
// The client talks to the database directly, without going through the HTTP
// API, and exposes the same ingestion, retrieval, and hybrid search
// operations:
//
//	client, _ := promptvault.New(ctx,
//	    promptvault.WithRedis("localhost:6379", ""),
//	    promptvault.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	p, _ := client.Ingest(ctx, promptvault.PromptInput{
//	    Content:  "Act as a code reviewer",
//	    Category: "dev",
//	})
//
//	hits, _ := client.Search().Query("review my code").Alpha(0.7).TopK(10).Do(ctx)
//
// Hybrid search fuses semantic similarity with community metadata (votes and
// quality); Alpha shifts the weight between the two.
package promptvault
