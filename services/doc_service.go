package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/repositories"

	"gorm.io/gorm"
)

const docRootPath = "/docs"

var (
	ErrTagInUse        = errors.New("tag is still referenced by pages")
	ErrPageCycle       = errors.New("page cannot be its own ancestor")
	ErrNotCommentOwner = errors.New("not the comment author")
)

var docSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"position":   true,
}

// Breadcrumb is one segment on the way from the docs root to a page.
type Breadcrumb struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

type DocService interface {
	CreatePage(req models.CreateDocPageRequest, authorID uint) (*models.DocPage, error)
	UpdatePage(id uint, req models.UpdateDocPageRequest) (*models.DocPage, error)
	DeletePage(id uint) error
	GetPage(identifier string) (*models.DocPage, error)
	GetTree() ([]*models.DocPage, error)
	GetBreadcrumbs(page *models.DocPage) ([]Breadcrumb, error)
	Search(params models.DocSearchParams) ([]models.DocPage, int64, error)

	CreateComment(pageID uint, req models.CreateDocCommentRequest, authorID uint) (*models.DocComment, error)
	GetComments(pageID uint) ([]models.DocComment, error)
	UpdateComment(id uint, req models.UpdateDocCommentRequest, authorID uint) (*models.DocComment, error)
	DeleteComment(id uint, authorID uint) error
	ResolveComment(id uint) (*models.DocComment, error)

	CreateTag(req models.CreateDocTagRequest) (*models.DocTag, error)
	GetTags() ([]models.DocTag, error)
	UpdateTag(id uint, req models.UpdateDocTagRequest) (*models.DocTag, error)
	DeleteTag(id uint) error
}

type docService struct {
	pageRepo    repositories.DocPageRepository
	tagRepo     repositories.DocTagRepository
	commentRepo repositories.DocCommentRepository
}

func NewDocService(pageRepo repositories.DocPageRepository, tagRepo repositories.DocTagRepository,
	commentRepo repositories.DocCommentRepository) DocService {
	return &docService{
		pageRepo:    pageRepo,
		tagRepo:     tagRepo,
		commentRepo: commentRepo,
	}
}

func (s *docService) CreatePage(req models.CreateDocPageRequest, authorID uint) (*models.DocPage, error) {
	slug := req.Slug
	if slug == "" {
		slug = helper.Slugify(req.Title)
	}

	pagePath := docRootPath + "/" + slug
	if req.ParentID != nil {
		parent, err := s.pageRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("parent page not found")
			}
			return nil, err
		}
		pagePath = parent.Path + "/" + slug
	}

	status := req.Status
	if status == "" {
		status = models.PageDraft
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.PagePublic
	}

	page := &models.DocPage{
		Title:      req.Title,
		Slug:       slug,
		Path:       pagePath,
		ParentID:   req.ParentID,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Status:     status,
		Visibility: visibility,
		Position:   req.Position,
		AuthorID:   authorID,
	}

	if err := s.pageRepo.Create(page); err != nil {
		return nil, err
	}

	if len(req.TagIDs) > 0 {
		if err := s.attachTags(page, req.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.pageRepo.GetByID(page.ID)
}

func (s *docService) UpdatePage(id uint, req models.UpdateDocPageRequest) (*models.DocPage, error) {
	page, err := s.pageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Content != nil {
		page.Content = *req.Content
	}
	if req.Excerpt != nil {
		page.Excerpt = *req.Excerpt
	}
	if req.Status != nil {
		page.Status = *req.Status
	}
	if req.Visibility != nil {
		page.Visibility = *req.Visibility
	}
	if req.Position != nil {
		page.Position = *req.Position
	}

	// A parent_id of 0 moves the page back to the docs root; nil leaves the
	// parent unchanged.
	toRoot := req.ParentID != nil && *req.ParentID == 0 && page.ParentID != nil
	reparent := req.ParentID != nil && *req.ParentID != 0 &&
		(page.ParentID == nil || *req.ParentID != *page.ParentID)

	if toRoot || reparent {
		var newPath string
		var newParent *uint
		if toRoot {
			newPath = docRootPath + "/" + page.Slug
		} else {
			var err error
			newPath, err = s.reparentPath(page, *req.ParentID)
			if err != nil {
				return nil, err
			}
			newParent = req.ParentID
		}

		oldPath := page.Path
		page.ParentID = newParent
		page.Path = newPath

		if err := s.pageRepo.Update(page); err != nil {
			return nil, err
		}
		if err := s.rewriteDescendantPaths(oldPath, newPath); err != nil {
			return nil, err
		}
	} else {
		if err := s.pageRepo.Update(page); err != nil {
			return nil, err
		}
	}

	if req.TagIDs != nil {
		if err := s.attachTags(page, req.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.pageRepo.GetByID(page.ID)
}

// reparentPath validates the new parent and returns the page's new path. A
// page may never appear in its own ancestor chain.
func (s *docService) reparentPath(page *models.DocPage, newParentID uint) (string, error) {
	if newParentID == page.ID {
		return "", ErrPageCycle
	}

	parent, err := s.pageRepo.GetByID(newParentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("parent page not found")
		}
		return "", err
	}

	// Walk up from the new parent; hitting the page itself means a cycle.
	current := parent
	for current.ParentID != nil {
		if *current.ParentID == page.ID {
			return "", ErrPageCycle
		}
		current, err = s.pageRepo.GetByID(*current.ParentID)
		if err != nil {
			return "", err
		}
	}

	return parent.Path + "/" + page.Slug, nil
}

func (s *docService) rewriteDescendantPaths(oldPrefix, newPrefix string) error {
	pages, err := s.pageRepo.GetAll()
	if err != nil {
		return err
	}

	for i := range pages {
		if strings.HasPrefix(pages[i].Path, oldPrefix+"/") {
			pages[i].Path = newPrefix + strings.TrimPrefix(pages[i].Path, oldPrefix)
			if err := s.pageRepo.Update(&pages[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *docService) attachTags(page *models.DocPage, tagIDs []uint) error {
	tags := make([]models.DocTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tag, err := s.tagRepo.GetByID(tagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("tag not found: " + strconv.FormatUint(uint64(tagID), 10))
			}
			return err
		}
		tags = append(tags, *tag)
	}
	return s.pageRepo.ReplaceTags(page, tags)
}

func (s *docService) DeletePage(id uint) error {
	page, err := s.pageRepo.GetByID(id)
	if err != nil {
		return err
	}

	children, err := s.pageRepo.GetChildren(page.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return errors.New("page has child pages, move or delete them first")
	}

	return s.pageRepo.Delete(id)
}

// GetPage resolves by id, slug or full path. Nil result means not found.
func (s *docService) GetPage(identifier string) (*models.DocPage, error) {
	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		page, err := s.pageRepo.GetByID(uint(id))
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if strings.HasPrefix(identifier, docRootPath+"/") {
		page, err := s.pageRepo.GetByPath(identifier)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	page, err := s.pageRepo.GetBySlug(identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return page, nil
}

// GetTree nests the flat page list into parent/children structure. A page
// whose parent is missing from the set becomes a root rather than being
// dropped.
func (s *docService) GetTree() ([]*models.DocPage, error) {
	pages, err := s.pageRepo.GetAll()
	if err != nil {
		return nil, err
	}

	return BuildPageTree(pages), nil
}

// BuildPageTree groups pages by parent id, preserving the repository's
// position ordering within each level.
func BuildPageTree(pages []models.DocPage) []*models.DocPage {
	byID := make(map[uint]*models.DocPage, len(pages))
	nodes := make([]*models.DocPage, len(pages))
	for i := range pages {
		node := pages[i]
		node.Children = []*models.DocPage{}
		nodes[i] = &node
		byID[node.ID] = nodes[i]
	}

	var roots []*models.DocPage
	for _, node := range nodes {
		if node.ParentID != nil {
			if parent, ok := byID[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

// GetBreadcrumbs walks the materialized path from the docs root down to the
// page.
func (s *docService) GetBreadcrumbs(page *models.DocPage) ([]Breadcrumb, error) {
	segments := strings.Split(strings.TrimPrefix(page.Path, docRootPath+"/"), "/")

	crumbs := make([]Breadcrumb, 0, len(segments))
	current := docRootPath
	for _, segment := range segments {
		current = current + "/" + segment

		ancestor, err := s.pageRepo.GetByPath(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling path segment; label it with the raw slug.
				crumbs = append(crumbs, Breadcrumb{Title: segment, Path: current})
				continue
			}
			return nil, err
		}
		crumbs = append(crumbs, Breadcrumb{Title: ancestor.Title, Path: ancestor.Path})
	}

	return crumbs, nil
}

func (s *docService) Search(params models.DocSearchParams) ([]models.DocPage, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	if !docSortColumns[params.SortBy] {
		params.SortBy = "updated_at"
	}

	return s.pageRepo.Search(params)
}

func (s *docService) CreateComment(pageID uint, req models.CreateDocCommentRequest, authorID uint) (*models.DocComment, error) {
	if _, err := s.pageRepo.GetByID(pageID); err != nil {
		return nil, err
	}

	comment := &models.DocComment{
		PageID:   pageID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(comment.ID)
}

func (s *docService) GetComments(pageID uint) ([]models.DocComment, error) {
	if _, err := s.pageRepo.GetByID(pageID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPage(pageID)
}

func (s *docService) UpdateComment(id uint, req models.UpdateDocCommentRequest, authorID uint) (*models.DocComment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != authorID {
		return nil, ErrNotCommentOwner
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *docService) DeleteComment(id uint, authorID uint) error {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}

	if comment.AuthorID != authorID {
		return ErrNotCommentOwner
	}

	return s.commentRepo.Delete(id)
}

// ResolveComment marks a comment resolved. The row stays; resolving is not a
// delete.
func (s *docService) ResolveComment(id uint) (*models.DocComment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !comment.Resolved {
		now := time.Now()
		comment.Resolved = true
		comment.ResolvedAt = &now
		if err := s.commentRepo.Update(comment); err != nil {
			return nil, err
		}
	}

	return comment, nil
}

func (s *docService) CreateTag(req models.CreateDocTagRequest) (*models.DocTag, error) {
	existing, err := s.tagRepo.GetByName(req.Name)
	if err == nil && existing != nil {
		return nil, errors.New("tag already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = helper.Slugify(req.Name)
	}
	color := req.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	tag := &models.DocTag{
		Name:  req.Name,
		Slug:  slug,
		Color: color,
	}

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}

	return tag, nil
}

func (s *docService) GetTags() ([]models.DocTag, error) {
	return s.tagRepo.GetAll()
}

func (s *docService) UpdateTag(id uint, req models.UpdateDocTagRequest) (*models.DocTag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tag.Name = *req.Name
	}
	if req.Slug != nil {
		tag.Slug = *req.Slug
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	if err := s.tagRepo.Update(tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// DeleteTag refuses to delete a tag that pages still reference. Callers must
// detach the tag from every page first.
func (s *docService) DeleteTag(id uint) error {
	if _, err := s.tagRepo.GetByID(id); err != nil {
		return err
	}

	count, err := s.tagRepo.CountPagesWithTag(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTagInUse
	}

	return s.tagRepo.Delete(id)
}
