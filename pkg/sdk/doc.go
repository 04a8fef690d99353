// Package riskdesk embeds the clinical risk decision support pipeline in a Go
// program without running the HTTP server.
//
// The client reads patients from a local SQLite registry, searches the
// hospital guidelines and insurance policy documents for evidence, and asks a
// text generator to translate inquiries and explain decisions.
//
//	client, _ := riskdesk.New(ctx,
//	    riskdesk.WithSQLite("hospital.db"),
//	    riskdesk.WithGuidelines("data/hospital_guidelines.pdf"),
//	    riskdesk.WithPolicy("data/insurance_policy.pdf"),
//	    riskdesk.WithGenerator(riskdesk.NewOpenAIGenerator(key, "https://api.groq.com/openai/v1", "")),
//	)
//	defer client.Close()
//
//	a, _ := client.Analyze(ctx, 42)
//	fmt.Println(a.Decision, a.Reasons)
//
//	res, _ := client.Inquire(ctx, "Is Smith high risk?")
//	fmt.Println(res.TotalCount, res.PatientNames)
//
// Without WithGenerator the pipeline still runs: inquiries fall back to an
// unfiltered registry scan and explanations carry the generator error.
package riskdesk
