package enhance

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultPrompt asks for documentation only; the declarations themselves must
// survive untouched or the response is rejected.
const DefaultPrompt = `You are given a generated Java API stub. Add concise Javadoc to the
public types and members, inferring intent from names and signatures. Do not
add, remove or change any declaration, modifier or statement. Return only the
complete Java source file.`

const (
	defaultModel    = "gemini-2.0-flash"
	defaultCacheDir = ".stubgen-cache"
	defaultJobs     = 4
	defaultMaxChars = 24000
	defaultMaxLines = 600
)

// Config controls the enhancement pass. The zero value is not usable; start
// from LoadConfig or fill every field.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	CacheDir    string // "" disables the on-disk response cache
	Jobs        int
	MaxChars    int // 0 means unlimited
	MaxLines    int // 0 means unlimited
	Filter      string
	Prompt      string
}

// LoadConfig reads settings from the environment, folding a .env file into it
// first when one exists in the working directory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // a missing .env is the common case

	cfg := &Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Model:       defaultModel,
		Temperature: 0.2,
		CacheDir:    defaultCacheDir,
		Jobs:        defaultJobs,
		MaxChars:    defaultMaxChars,
		MaxLines:    defaultMaxLines,
		Prompt:      DefaultPrompt,
	}
	if v := os.Getenv("STUBGEN_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("STUBGEN_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("STUBGEN_ENHANCE_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("STUBGEN_ENHANCE_JOBS: invalid value %q", v)
		}
		cfg.Jobs = n
	}
	return cfg, nil
}
