package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rulehub/config"
	"rulehub/handlers"
	"rulehub/helper"
	"rulehub/middleware"
	"rulehub/models"
	"rulehub/repositories"
	"rulehub/services"
)

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
	token  string
	userID uint
}

func (suite *IntegrationTestSuite) SetupSuite() {
	host := envOr("TEST_DB_HOST", "localhost")
	port := envOr("TEST_DB_PORT", "5432")
	user := envOr("TEST_DB_USER", "rulehub")
	password := envOr("TEST_DB_PASSWORD", "rulehub")
	name := envOr("TEST_DB_NAME", "rulehub_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, name)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		suite.T().Skip("test database not available:", err)
	}
	suite.db = db

	if _, err := config.RunMigrations(db); err != nil {
		suite.T().Fatal("failed to run migrations:", err)
	}

	suite.cfg = &config.Config{
		Environment:   "test",
		JWTSecret:     []byte("integration-test-secret"),
		WebhookSecret: "integration-webhook-secret",
		RulesPath:     "rules",
	}

	suite.setupRouter()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (suite *IntegrationTestSuite) setupRouter() {
	gin.SetMode(gin.TestMode)

	userRepo := repositories.NewUserRepository(suite.db)
	categoryRepo := repositories.NewCategoryRepository(suite.db)
	ruleRepo := repositories.NewRuleRepository(suite.db)
	voteRepo := repositories.NewVoteRepository(suite.db)
	docPageRepo := repositories.NewDocPageRepository(suite.db)
	docTagRepo := repositories.NewDocTagRepository(suite.db)
	docCommentRepo := repositories.NewDocCommentRepository(suite.db)
	collectionRepo := repositories.NewCollectionRepository(suite.db)
	adminRepo := repositories.NewAdminRepository(suite.db)

	authService := services.NewAuthService(userRepo, suite.cfg)
	ruleService := services.NewRuleService(ruleRepo, categoryRepo)
	docService := services.NewDocService(docPageRepo, docTagRepo, docCommentRepo)
	voteService := services.NewVoteService(voteRepo, ruleRepo)
	collectionService := services.NewCollectionService(collectionRepo, ruleRepo)

	httpHelper := helper.NewHTTPHelper()
	authHandler := handlers.NewAuthHandler(authService)
	ruleHandler := handlers.NewRuleHandler(ruleService)
	docHandler := handlers.NewDocHandler(docService)
	voteHandler := handlers.NewVoteHandler(voteService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	authHandler.Helper = httpHelper
	ruleHandler.Helper = httpHelper
	docHandler.Helper = httpHelper
	voteHandler.Helper = httpHelper
	collectionHandler.Helper = httpHelper

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		v1.GET("/categories", ruleHandler.GetCategories)
		v1.GET("/rules", ruleHandler.GetRules)
		v1.GET("/rules/lookup", ruleHandler.LookupRule)
		v1.GET("/rules/:identifier", ruleHandler.GetRule)

		docs := v1.Group("/docs")
		{
			docs.GET("/tree", docHandler.GetTree)
			docs.GET("/pages/:identifier", docHandler.GetPage)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(suite.cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.POST("/rules/:identifier/vote", voteHandler.AddVote)
			protected.DELETE("/rules/:identifier/vote", voteHandler.RemoveVote)
			protected.POST("/collections", collectionHandler.Create)
			protected.GET("/collections", collectionHandler.GetMine)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(suite.cfg), middleware.AdminMiddleware(adminRepo))
		{
			admin.POST("/rules", ruleHandler.CreateRule)
			admin.POST("/categories", ruleHandler.CreateCategory)
			admin.POST("/docs/pages", docHandler.CreatePage)
		}
	}

	suite.router = router
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	if suite.db == nil {
		return
	}
	for _, table := range []string{
		"collection_rules", "collections", "user_votes", "doc_comments",
		"doc_page_tags", "doc_tags", "doc_pages", "rule_versions", "rules",
		"categories", "sync_logs", "admins", "users", "schema_migrations",
	} {
		suite.db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE")
	}
}

func (suite *IntegrationTestSuite) SetupTest() {
	for _, table := range []string{
		"collection_rules", "collections", "user_votes", "doc_comments",
		"doc_page_tags", "doc_tags", "doc_pages", "rule_versions", "rules",
		"categories", "sync_logs", "admins", "users",
	} {
		suite.db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE")
	}

	suite.registerAndLoginTestUser()
}

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage string          `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

func (suite *IntegrationTestSuite) request(method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	var env envelope
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		suite.NoError(json.Unmarshal(env.Data, out))
	}
}

func (suite *IntegrationTestSuite) registerAndLoginTestUser() {
	w := suite.request("POST", "/api/v1/auth/register", models.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}, "")
	suite.Equal(http.StatusOK, w.Code)

	var auth models.AuthResponse
	suite.decode(w, &auth)
	suite.NotEmpty(auth.Token)

	suite.token = auth.Token
	suite.userID = auth.User.ID

	// Allow-list the test user so admin routes work.
	suite.db.Create(&models.Admin{Email: "test@example.com", AddedBy: "suite"})
}

func (suite *IntegrationTestSuite) createCategory(name string) models.Category {
	w := suite.request("POST", "/api/v1/admin/categories", models.CreateCategoryRequest{Name: name}, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var category models.Category
	suite.decode(w, &category)
	return category
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	w := suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}, "")
	suite.Equal(http.StatusOK, w.Code)

	var auth models.AuthResponse
	suite.decode(w, &auth)
	suite.NotEmpty(auth.Token)
	suite.Equal("testuser", auth.User.Username)
}

func (suite *IntegrationTestSuite) TestLoginWithWrongPassword() {
	w := suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestGetProfile() {
	w := suite.request("GET", "/api/v1/profile", nil, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var user models.User
	suite.decode(w, &user)
	suite.Equal("testuser", user.Username)
}

func (suite *IntegrationTestSuite) TestCreateAndBrowseRules() {
	category := suite.createCategory("Backend")

	w := suite.request("POST", "/api/v1/admin/rules", models.CreateRuleRequest{
		Title:      "Error Handling",
		Content:    "Wrap errors with context.",
		CategoryID: category.ID,
		Tags:       []string{"go", "errors"},
	}, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var created models.Rule
	suite.decode(w, &created)
	suite.Equal("error-handling", created.Slug)

	// Slug lookup on the public route.
	w = suite.request("GET", "/api/v1/rules/error-handling", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var fetched models.Rule
	suite.decode(w, &fetched)
	suite.Equal(created.ID, fetched.ID)

	// Unknown rules are a 404, not an empty 200.
	w = suite.request("GET", "/api/v1/rules/no-such-rule", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)

	// A second admin-created rule must not trip over the first one's
	// empty source_path.
	w = suite.request("POST", "/api/v1/admin/rules", models.CreateRuleRequest{
		Title:      "Naming Conventions",
		Content:    "Short names for short scopes.",
		CategoryID: category.ID,
	}, suite.token)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestDeletedRuleFreesSlugAndSourcePath() {
	category := suite.createCategory("Backend")
	ruleRepo := repositories.NewRuleRepository(suite.db)

	first := &models.Rule{
		Title:      "Go",
		Slug:       "go",
		CategoryID: category.ID,
		SourcePath: "rules/backend/go.mdc",
	}
	suite.Require().NoError(ruleRepo.Create(first))
	suite.Require().NoError(ruleRepo.Delete(first.ID))

	// A source file that disappears and later returns imports cleanly;
	// the soft-deleted row must not block the re-add.
	restored := &models.Rule{
		Title:      "Go",
		Slug:       "go",
		CategoryID: category.ID,
		SourcePath: "rules/backend/go.mdc",
	}
	suite.Require().NoError(ruleRepo.Create(restored))

	found, err := ruleRepo.GetBySourcePath("rules/backend/go.mdc")
	suite.Require().NoError(err)
	suite.Equal(restored.ID, found.ID)
}

func (suite *IntegrationTestSuite) TestLookupRuleByPathFragment() {
	category := suite.createCategory("Backend")
	ruleRepo := repositories.NewRuleRepository(suite.db)

	rule := &models.Rule{
		Title:      "Go",
		Slug:       "go",
		CategoryID: category.ID,
		SourcePath: "rules/backend/go.mdc",
	}
	suite.Require().NoError(ruleRepo.Create(rule))

	// Slash-containing legacy fragments travel as a query parameter.
	w := suite.request("GET", "/api/v1/rules/lookup?path=backend/go.mdc", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var fetched models.Rule
	suite.decode(w, &fetched)
	suite.Equal(rule.ID, fetched.ID)

	w = suite.request("GET", "/api/v1/rules/lookup", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestVoteFlow() {
	category := suite.createCategory("Backend")

	w := suite.request("POST", "/api/v1/admin/rules", models.CreateRuleRequest{
		Title:      "Voteworthy",
		Content:    "body",
		CategoryID: category.ID,
	}, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var rule models.Rule
	suite.decode(w, &rule)

	path := fmt.Sprintf("/api/v1/rules/%d/vote", rule.ID)

	type voteResult struct {
		RuleID uint `json:"rule_id"`
		Votes  int  `json:"votes"`
	}

	w = suite.request("POST", path, nil, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var afterVote voteResult
	suite.decode(w, &afterVote)
	suite.Equal(1, afterVote.Votes)

	// Voting twice is a conflict.
	w = suite.request("POST", path, nil, suite.token)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request("DELETE", path, nil, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var afterUnvote voteResult
	suite.decode(w, &afterUnvote)
	suite.Equal(0, afterUnvote.Votes)
}

func (suite *IntegrationTestSuite) TestDocPageTree() {
	w := suite.request("POST", "/api/v1/admin/docs/pages", models.CreateDocPageRequest{
		Title:   "Guides",
		Content: "Index of guides.",
	}, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var root models.DocPage
	suite.decode(w, &root)
	suite.Equal("/docs/guides", root.Path)

	w = suite.request("POST", "/api/v1/admin/docs/pages", models.CreateDocPageRequest{
		Title:    "Setup",
		Content:  "Setup guide.",
		ParentID: &root.ID,
	}, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var child models.DocPage
	suite.decode(w, &child)
	suite.Equal("/docs/guides/setup", child.Path)

	w = suite.request("GET", "/api/v1/docs/tree", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var tree []models.DocPage
	suite.decode(w, &tree)
	suite.Len(tree, 1)
	suite.Len(tree[0].Children, 1)
	suite.Equal("Setup", tree[0].Children[0].Title)
}

func (suite *IntegrationTestSuite) TestCollections() {
	w := suite.request("POST", "/api/v1/collections", models.CreateCollectionRequest{
		Name:   "My Picks",
		Public: false,
	}, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/collections", nil, suite.token)
	suite.Equal(http.StatusOK, w.Code)

	var collections []models.Collection
	suite.decode(w, &collections)
	suite.Len(collections, 1)
	suite.Equal("My Picks", collections[0].Name)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
