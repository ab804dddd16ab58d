package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"rulehub/githubapi"
	"rulehub/models"
	"rulehub/repositories"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the gorm implementations closely
// enough for service-level tests, including gorm.ErrRecordNotFound on
// misses.

type memRuleRepo struct {
	rules    map[uint]*models.Rule
	versions []models.RuleVersion
	nextID   uint
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: map[uint]*models.Rule{}, nextID: 1}
}

func (r *memRuleRepo) Create(rule *models.Rule) error {
	rule.ID = r.nextID
	r.nextID++
	clone := *rule
	r.rules[rule.ID] = &clone
	return nil
}

func (r *memRuleRepo) GetByID(id uint) (*models.Rule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *rule
	return &clone, nil
}

func (r *memRuleRepo) GetBySlug(slug string) (*models.Rule, error) {
	for _, rule := range r.rules {
		if rule.Slug == slug {
			clone := *rule
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRuleRepo) GetBySourcePath(path string) (*models.Rule, error) {
	for _, rule := range r.rules {
		if rule.SourcePath == path {
			clone := *rule
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRuleRepo) GetByPathSuffix(fragment string) (*models.Rule, error) {
	for _, rule := range r.rules {
		if strings.HasSuffix(rule.SourcePath, fragment) {
			clone := *rule
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRuleRepo) GetList(params models.RuleListParams, categoryID uint) ([]models.Rule, int64, error) {
	var out []models.Rule
	for _, rule := range r.rules {
		if categoryID != 0 && rule.CategoryID != categoryID {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(rule.Title), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, *rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memRuleRepo) GetAllSourcePaths() (map[string]uint, error) {
	paths := map[string]uint{}
	for _, rule := range r.rules {
		if rule.SourcePath != "" {
			paths[rule.SourcePath] = rule.ID
		}
	}
	return paths, nil
}

func (r *memRuleRepo) Update(rule *models.Rule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *rule
	r.rules[rule.ID] = &clone
	return nil
}

func (r *memRuleRepo) Delete(id uint) error {
	if _, ok := r.rules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rules, id)
	return nil
}

func (r *memRuleRepo) Count() (int64, error) {
	return int64(len(r.rules)), nil
}

func (r *memRuleRepo) IncrementDownloads(id uint) error {
	rule, ok := r.rules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rule.Downloads++
	return nil
}

func (r *memRuleRepo) CreateVersion(version *models.RuleVersion) error {
	version.ID = uint(len(r.versions) + 1)
	r.versions = append(r.versions, *version)
	return nil
}

func (r *memRuleRepo) GetVersions(ruleID uint) ([]models.RuleVersion, error) {
	var out []models.RuleVersion
	for _, v := range r.versions {
		if v.RuleID == ruleID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memRuleRepo) GetMatching(frameworks, assistants []string, editor string) ([]models.Rule, error) {
	matches := func(have []string, want []string) bool {
		for _, w := range want {
			for _, h := range have {
				if h == w {
					return true
				}
			}
		}
		return false
	}

	var out []models.Rule
	for _, rule := range r.rules {
		if editor != "" && matches(rule.Compatibility.IDEs, []string{editor}) {
			out = append(out, *rule)
			continue
		}
		if matches(rule.Compatibility.Frameworks, frameworks) ||
			matches(rule.Compatibility.AIAssistants, assistants) {
			out = append(out, *rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memCategoryRepo struct {
	categories map[uint]*models.Category
	nextID     uint
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[uint]*models.Category{}, nextID: 1}
}

func (r *memCategoryRepo) Create(category *models.Category) error {
	category.ID = r.nextID
	r.nextID++
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memCategoryRepo) GetByID(id uint) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *memCategoryRepo) GetBySlug(slug string) (*models.Category, error) {
	for _, category := range r.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategoryRepo) GetAll() ([]models.Category, error) {
	var out []models.Category
	for _, category := range r.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCategoryRepo) Update(category *models.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memCategoryRepo) Delete(id uint) error {
	if _, ok := r.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memCategoryRepo) Count() (int64, error) {
	return int64(len(r.categories)), nil
}

type memSyncLogRepo struct {
	logs []models.SyncLog
}

func (r *memSyncLogRepo) Create(log *models.SyncLog) error {
	log.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memSyncLogRepo) GetLatest() (*models.SyncLog, error) {
	if len(r.logs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := r.logs[len(r.logs)-1]
	return &latest, nil
}

func (r *memSyncLogRepo) GetRecent(limit int) ([]models.SyncLog, error) {
	if limit > len(r.logs) {
		limit = len(r.logs)
	}
	out := make([]models.SyncLog, 0, limit)
	for i := len(r.logs) - 1; i >= len(r.logs)-limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *memSyncLogRepo) Count() (int64, error) {
	return int64(len(r.logs)), nil
}

type memDocPageRepo struct {
	pages  map[uint]*models.DocPage
	tags   map[uint][]models.DocTag
	nextID uint
}

func newMemDocPageRepo() *memDocPageRepo {
	return &memDocPageRepo{pages: map[uint]*models.DocPage{}, tags: map[uint][]models.DocTag{}, nextID: 1}
}

func (r *memDocPageRepo) Create(page *models.DocPage) error {
	page.ID = r.nextID
	r.nextID++
	clone := *page
	r.pages[page.ID] = &clone
	return nil
}

func (r *memDocPageRepo) GetByID(id uint) (*models.DocPage, error) {
	page, ok := r.pages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *page
	return &clone, nil
}

func (r *memDocPageRepo) GetBySlug(slug string) (*models.DocPage, error) {
	for _, page := range r.pages {
		if page.Slug == slug {
			clone := *page
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDocPageRepo) GetByPath(path string) (*models.DocPage, error) {
	for _, page := range r.pages {
		if page.Path == path {
			clone := *page
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDocPageRepo) GetAll() ([]models.DocPage, error) {
	var out []models.DocPage
	for _, page := range r.pages {
		out = append(out, *page)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memDocPageRepo) GetChildren(parentID uint) ([]models.DocPage, error) {
	var out []models.DocPage
	for _, page := range r.pages {
		if page.ParentID != nil && *page.ParentID == parentID {
			out = append(out, *page)
		}
	}
	return out, nil
}

func (r *memDocPageRepo) Search(params models.DocSearchParams) ([]models.DocPage, int64, error) {
	var out []models.DocPage
	for _, page := range r.pages {
		if params.Query != "" && !strings.Contains(strings.ToLower(page.Title), strings.ToLower(params.Query)) {
			continue
		}
		if params.Status != "" && string(page.Status) != params.Status {
			continue
		}
		out = append(out, *page)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memDocPageRepo) Update(page *models.DocPage) error {
	if _, ok := r.pages[page.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *page
	r.pages[page.ID] = &clone
	return nil
}

func (r *memDocPageRepo) ReplaceTags(page *models.DocPage, tags []models.DocTag) error {
	r.tags[page.ID] = tags
	return nil
}

func (r *memDocPageRepo) Delete(id uint) error {
	if _, ok := r.pages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.pages, id)
	return nil
}

func (r *memDocPageRepo) Count() (int64, error) {
	return int64(len(r.pages)), nil
}

type memDocTagRepo struct {
	tags      map[uint]*models.DocTag
	pageLinks map[uint]int64
	nextID    uint
}

func newMemDocTagRepo() *memDocTagRepo {
	return &memDocTagRepo{tags: map[uint]*models.DocTag{}, pageLinks: map[uint]int64{}, nextID: 1}
}

func (r *memDocTagRepo) Create(tag *models.DocTag) error {
	tag.ID = r.nextID
	r.nextID++
	clone := *tag
	r.tags[tag.ID] = &clone
	return nil
}

func (r *memDocTagRepo) GetByID(id uint) (*models.DocTag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *tag
	return &clone, nil
}

func (r *memDocTagRepo) GetByName(name string) (*models.DocTag, error) {
	for _, tag := range r.tags {
		if tag.Name == name {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDocTagRepo) GetAll() ([]models.DocTag, error) {
	var out []models.DocTag
	for _, tag := range r.tags {
		out = append(out, *tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memDocTagRepo) Update(tag *models.DocTag) error {
	if _, ok := r.tags[tag.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *tag
	r.tags[tag.ID] = &clone
	return nil
}

func (r *memDocTagRepo) Delete(id uint) error {
	if _, ok := r.tags[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tags, id)
	return nil
}

func (r *memDocTagRepo) CountPagesWithTag(tagID uint) (int64, error) {
	return r.pageLinks[tagID], nil
}

type memDocCommentRepo struct {
	comments map[uint]*models.DocComment
	nextID   uint
}

func newMemDocCommentRepo() *memDocCommentRepo {
	return &memDocCommentRepo{comments: map[uint]*models.DocComment{}, nextID: 1}
}

func (r *memDocCommentRepo) Create(comment *models.DocComment) error {
	comment.ID = r.nextID
	r.nextID++
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memDocCommentRepo) GetByID(id uint) (*models.DocComment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *comment
	return &clone, nil
}

func (r *memDocCommentRepo) GetByPage(pageID uint) ([]models.DocComment, error) {
	var out []models.DocComment
	for _, comment := range r.comments {
		if comment.PageID == pageID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memDocCommentRepo) Update(comment *models.DocComment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memDocCommentRepo) Delete(id uint) error {
	if _, ok := r.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, id)
	return nil
}

type memVoteRepo struct {
	votes    map[string]bool
	ruleRepo *memRuleRepo
}

func newMemVoteRepo(ruleRepo *memRuleRepo) *memVoteRepo {
	return &memVoteRepo{votes: map[string]bool{}, ruleRepo: ruleRepo}
}

func voteKey(userID, ruleID uint) string {
	return fmt.Sprintf("%d:%d", userID, ruleID)
}

func (r *memVoteRepo) Add(userID, ruleID uint) error {
	key := voteKey(userID, ruleID)
	if r.votes[key] {
		return repositories.ErrVoteExists
	}
	r.votes[key] = true
	if rule, ok := r.ruleRepo.rules[ruleID]; ok {
		rule.Votes++
	}
	return nil
}

func (r *memVoteRepo) Remove(userID, ruleID uint) error {
	key := voteKey(userID, ruleID)
	if !r.votes[key] {
		return repositories.ErrVoteNotFound
	}
	delete(r.votes, key)
	if rule, ok := r.ruleRepo.rules[ruleID]; ok && rule.Votes > 0 {
		rule.Votes--
	}
	return nil
}

func (r *memVoteRepo) Has(userID, ruleID uint) (bool, error) {
	return r.votes[voteKey(userID, ruleID)], nil
}

func (r *memVoteRepo) CountForRule(ruleID uint) (int64, error) {
	var n int64
	suffix := fmt.Sprintf(":%d", ruleID)
	for key := range r.votes {
		if strings.HasSuffix(key, suffix) {
			n++
		}
	}
	return n, nil
}

type memAdminRepo struct {
	admins map[string]*models.Admin
	nextID uint
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: map[string]*models.Admin{}, nextID: 1}
}

func (r *memAdminRepo) Add(admin *models.Admin) error {
	admin.ID = r.nextID
	r.nextID++
	clone := *admin
	r.admins[admin.Email] = &clone
	return nil
}

func (r *memAdminRepo) GetByEmail(email string) (*models.Admin, error) {
	admin, ok := r.admins[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *admin
	return &clone, nil
}

func (r *memAdminRepo) IsAdmin(email string) (bool, error) {
	_, ok := r.admins[email]
	return ok, nil
}

func (r *memAdminRepo) GetAll() ([]models.Admin, error) {
	var out []models.Admin
	for _, admin := range r.admins {
		out = append(out, *admin)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAdminRepo) Remove(email string) error {
	if _, ok := r.admins[email]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.admins, email)
	return nil
}

func (r *memAdminRepo) Count() (int64, error) {
	return int64(len(r.admins)), nil
}

type memUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *memUserRepo) Create(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetList(page, limit int) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

// fakeRuleSource serves rule files from a map, standing in for the live
// repository host.
type fakeRuleSource struct {
	files     map[string]string
	failPaths map[string]bool
	listErr   error
}

func newFakeRuleSource() *fakeRuleSource {
	return &fakeRuleSource{files: map[string]string{}, failPaths: map[string]bool{}}
}

func (f *fakeRuleSource) ListTree(ctx context.Context) ([]githubapi.TreeEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	paths := make([]string, 0, len(f.files))
	for path := range f.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]githubapi.TreeEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, githubapi.TreeEntry{Path: path, Type: "blob"})
	}
	return entries, nil
}

func (f *fakeRuleSource) FileContent(ctx context.Context, path string) ([]byte, error) {
	if f.failPaths[path] {
		return nil, fmt.Errorf("fetch failed for %s", path)
	}
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(content), nil
}
