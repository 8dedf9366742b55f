package analyzer

// sponsoredMarkers are lowercased phrases that mark branded or paid content
// when the platform itself did not flag the post.
var sponsoredMarkers = []string{
	"#ad",
	"#ads",
	"#sponsored",
	"#sponsor",
	"#gifted",
	"#partner",
	"#affiliate",
	"#promotion",
	"#pr",
	"paid partnership",
	"sponsored by",
	"in collaboration with",
	"in partnership with",
	"brand ambassador",
}
