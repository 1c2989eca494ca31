package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// WelcomeMessage is returned by GET / of every generated server
const WelcomeMessage = "Welcome to this new Express.js Project"

// DefaultPort is the port of the shared server; module servers count up from it
const DefaultPort = 3000

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("catalog").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.tmpl"),
)

var kebabcase = sprig.TxtFuncMap()["kebabcase"].(func(string) string)

// ImageName derives the Docker image and database name of a project.
// The result is lowercase [a-z0-9] runs joined by '-', e.g. "My App" -> "my-app".
func ImageName(projectName string) string {
	words := strings.FieldsFunc(strings.ToLower(kebabcase(projectName)), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return "app"
	}
	return strings.Join(words, "-")
}

// Mount is a module router aggregated by the shared server
type Mount struct {
	Name   string
	Import string
}

// Script is a package.json script listed in the readme
type Script struct {
	Name    string
	Command string
}

// ReadmeOptions carries the parts of the readme that depend on the run, not the config
type ReadmeOptions struct {
	Install string
	Run     string
	Scripts []Script
}

// DockerOptions are the package manager commands run while building the image
type DockerOptions struct {
	Lockfile string
	Corepack bool
	Install  string
	Build    string
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func sourceTemplate(base string, lang models.Language) (string, error) {
	if !lang.IsValid() {
		return "", fmt.Errorf("invalid language: %q", lang)
	}
	return fmt.Sprintf("%s.%s.tmpl", base, lang.Ext()), nil
}

func renderSource(base string, lang models.Language, data interface{}) (string, error) {
	name, err := sourceTemplate(base, lang)
	if err != nil {
		return "", err
	}
	return render(name, data)
}

func featureData(features models.FeatureSet) map[string]interface{} {
	return map[string]interface{}{
		"Helmet":  features.Has(models.FeatureHelmet),
		"JWT":     features.Has(models.FeatureJWT),
		"Mongo":   features.Has(models.FeatureMongoDB),
		"Welcome": WelcomeMessage,
	}
}

// RenderServerEntrypoint renders src/server.<ext> of the shared root.
// Each module router is imported from its own source root and mounted at /<module>.
func RenderServerEntrypoint(lang models.Language, features models.FeatureSet, modules []string) (string, error) {
	mounts := make([]Mount, 0, len(modules))
	for _, m := range modules {
		mounts = append(mounts, Mount{
			Name:   m,
			Import: "../" + path.Join(m, "src", "routes", m+"Routes"),
		})
	}

	data := featureData(features)
	data["Mounts"] = mounts
	return renderSource("server", lang, data)
}

// RenderModuleServer renders the standalone entrypoint of a module
func RenderModuleServer(lang models.Language, module string, port int) (string, error) {
	return renderSource("module_server", lang, map[string]interface{}{
		"Name":    module,
		"Port":    port,
		"Welcome": WelcomeMessage,
	})
}

// RenderModuleRouteStub renders an empty router for a module
func RenderModuleRouteStub(lang models.Language, module string) (string, error) {
	return renderSource("module_routes", lang, map[string]interface{}{"Name": module})
}

// RenderDatabaseConfig renders src/configs/config.<ext>
func RenderDatabaseConfig(lang models.Language) (string, error) {
	return renderSource("config", lang, nil)
}

// RenderUserModel renders src/models/userModel.<ext>
func RenderUserModel(lang models.Language) (string, error) {
	return renderSource("user_model", lang, nil)
}

// RenderUserController renders src/controllers/userController.<ext>
func RenderUserController(lang models.Language) (string, error) {
	return renderSource("user_controller", lang, nil)
}

// RenderUserRoutes renders src/routes/userRouter.<ext>
func RenderUserRoutes(lang models.Language) (string, error) {
	return renderSource("user_routes", lang, nil)
}

// RenderUserService renders src/services/userServices.<ext>
func RenderUserService(lang models.Language) (string, error) {
	return renderSource("user_service", lang, nil)
}

// RenderAuthMiddleware renders a JWT verifying middleware, or a pass-through stub without JWT
func RenderAuthMiddleware(lang models.Language, features models.FeatureSet) (string, error) {
	return renderSource("auth_middleware", lang, featureData(features))
}

// RenderErrorMiddleware renders src/middlewares/errorMiddleware.<ext>
func RenderErrorMiddleware(lang models.Language) (string, error) {
	return renderSource("error_middleware", lang, nil)
}

// RenderTestFile renders the smoke test asserting GET / answers 200 with the welcome message
func RenderTestFile(lang models.Language, framework models.TestFramework) (string, error) {
	if !framework.Enabled() {
		return "", fmt.Errorf("no test file for test framework %q", framework)
	}
	return renderSource(strings.ToLower(framework.String())+".test", lang, map[string]interface{}{
		"Welcome": WelcomeMessage,
	})
}

// RenderDockerfile renders a node image running entrypoint, building TypeScript first.
// Dependencies are installed and built with the commands in opts.
func RenderDockerfile(lang models.Language, entrypoint string, opts DockerOptions) (string, error) {
	return render("Dockerfile.tmpl", map[string]interface{}{
		"TypeScript": lang == models.LanguageTypeScript,
		"Entrypoint": entrypoint,
		"Lockfile":   opts.Lockfile,
		"Corepack":   opts.Corepack,
		"Install":    opts.Install,
		"Build":      opts.Build,
	})
}

// RenderDockerReadmeSection renders the section appended to readme.md when Docker is enabled
func RenderDockerReadmeSection(projectName string) (string, error) {
	return render("docker_readme.md.tmpl", map[string]interface{}{"Image": ImageName(projectName)})
}

// RenderGitignore renders .gitignore
func RenderGitignore() (string, error) {
	return render("gitignore.tmpl", nil)
}

// RenderReadme renders readme.md for cfg
func RenderReadme(cfg *models.ProjectConfig, opts ReadmeOptions) (string, error) {
	features := make([]string, 0, len(cfg.Features))
	for _, f := range cfg.Features.List() {
		features = append(features, f.String())
	}

	return render("readme.md.tmpl", map[string]interface{}{
		"Name":         cfg.ProjectName,
		"Description":  cfg.Description,
		"Language":     cfg.Language,
		"Architecture": cfg.Architecture,
		"Ext":          cfg.Ext(),
		"Modules":      cfg.Modules,
		"Install":      opts.Install,
		"Run":          opts.Run,
		"Scripts":      opts.Scripts,
		"Features":     features,
		"License":      cfg.License,
	})
}

type composeFile struct {
	Version  string                    `yaml:"version"`
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

type composeService struct {
	Image       string            `yaml:"image,omitempty"`
	Build       string            `yaml:"build,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	EnvFile     []string          `yaml:"env_file,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
}

// RenderComposeFile renders docker-compose.yml with the app service and, with MongoDB, a mongo service
func RenderComposeFile(projectName string, features models.FeatureSet) (string, error) {
	app := composeService{
		Image:   ImageName(projectName),
		Build:   ".",
		Ports:   []string{fmt.Sprintf("%d:%d", DefaultPort, DefaultPort)},
		EnvFile: []string{".env"},
	}
	file := composeFile{
		Version:  "3.8",
		Services: map[string]composeService{},
	}

	if features.Has(models.FeatureMongoDB) {
		app.Environment = map[string]string{"MONGO_URI": "mongodb://mongo:27017/" + ImageName(projectName)}
		app.DependsOn = []string{"mongo"}
		file.Services["mongo"] = composeService{
			Image:   "mongo:7",
			Ports:   []string{"27017:27017"},
			Volumes: []string{"mongo-data:/data/db"},
		}
		file.Volumes = map[string]struct{}{"mongo-data": {}}
	}
	file.Services["app"] = app

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return "", fmt.Errorf("failed to marshal docker-compose.yml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal docker-compose.yml: %w", err)
	}
	return buf.String(), nil
}

// RenderEnvFile renders .env. secret is written as JWT_SECRET when JWT is enabled.
func RenderEnvFile(projectName string, features models.FeatureSet, secret string) (string, error) {
	env := map[string]string{
		"PORT":     fmt.Sprint(DefaultPort),
		"NODE_ENV": "development",
	}
	if features.Has(models.FeatureJWT) {
		env["JWT_SECRET"] = secret
	}
	if features.Has(models.FeatureMongoDB) {
		env["MONGO_URI"] = "mongodb://localhost:27017/" + ImageName(projectName)
	}

	content, err := godotenv.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to marshal .env: %w", err)
	}
	return content + "\n", nil
}

type tsConfig struct {
	CompilerOptions tsCompilerOptions `json:"compilerOptions"`
	Include         []string          `json:"include"`
	Exclude         []string          `json:"exclude"`
}

type tsCompilerOptions struct {
	Target                           string `json:"target"`
	Module                           string `json:"module"`
	RootDir                          string `json:"rootDir"`
	OutDir                           string `json:"outDir"`
	Strict                           bool   `json:"strict"`
	EsModuleInterop                  bool   `json:"esModuleInterop"`
	SkipLibCheck                     bool   `json:"skipLibCheck"`
	ForceConsistentCasingInFileNames bool   `json:"forceConsistentCasingInFileNames"`
	ResolveJSONModule                bool   `json:"resolveJsonModule"`
}

// sourceRoots returns the src directory of the shared root followed by each module's
func sourceRoots(modules []string) []string {
	roots := []string{"src"}
	for _, m := range modules {
		roots = append(roots, path.Join(m, "src"))
	}
	return roots
}

// RenderTsConfig renders tsconfig.json. With modules the compilation root is the project
// root, so the shared server lands in dist/src/server.js.
func RenderTsConfig(modules []string) (string, error) {
	rootDir := "src"
	if len(modules) > 0 {
		rootDir = "."
	}

	return marshalJSON("tsconfig.json", tsConfig{
		CompilerOptions: tsCompilerOptions{
			Target:                           "ES2020",
			Module:                           "commonjs",
			RootDir:                          rootDir,
			OutDir:                           "dist",
			Strict:                           true,
			EsModuleInterop:                  true,
			SkipLibCheck:                     true,
			ForceConsistentCasingInFileNames: true,
			ResolveJSONModule:                true,
		},
		Include: sourceRoots(modules),
		Exclude: []string{"node_modules", "dist", "**/__tests__"},
	})
}

type nodemonConfig struct {
	Watch   []string          `json:"watch"`
	Ext     string            `json:"ext"`
	ExecMap map[string]string `json:"execMap"`
}

// RenderNodemonConfig renders nodemon.json running TypeScript sources through ts-node
func RenderNodemonConfig(modules []string) (string, error) {
	return marshalJSON("nodemon.json", nodemonConfig{
		Watch:   sourceRoots(modules),
		Ext:     "ts,json",
		ExecMap: map[string]string{"ts": "ts-node"},
	})
}

func marshalJSON(name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return string(data) + "\n", nil
}
