package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"senior-house/internal/models"
	"senior-house/internal/repositories"
)

// MemStore is an in-memory repositories.Store for service tests. It keeps the
// unique constraints of the schema and rolls back every map when a WithTx
// callback fails.
type MemStore struct {
	mu    sync.Mutex
	seq   int
	clock time.Time
	data  memData

	// FailOn makes the named operation ("Messages.Create", "Jobs.IncrementApplicationCount", ...) fail.
	FailOn map[string]error
}

type memData struct {
	users     map[int]models.User
	jobs      map[int]models.JobPost
	bookmarks map[[2]int]models.JobBookmark
	apps      map[int]models.JobApplication
	rooms     map[int]models.ChatRoom
	messages  map[int]models.ChatMessage
	resumes   map[int]models.Resume
	certs     map[int]models.Certificate
}

func NewMemStore() *MemStore {
	return &MemStore{
		clock: time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC),
		data: memData{
			users:     map[int]models.User{},
			jobs:      map[int]models.JobPost{},
			bookmarks: map[[2]int]models.JobBookmark{},
			apps:      map[int]models.JobApplication{},
			rooms:     map[int]models.ChatRoom{},
			messages:  map[int]models.ChatMessage{},
			resumes:   map[int]models.Resume{},
			certs:     map[int]models.Certificate{},
		},
		FailOn: map[string]error{},
	}
}

func (d memData) clone() memData {
	return memData{
		users:     cloneMap(d.users),
		jobs:      cloneMap(d.jobs),
		bookmarks: cloneMap(d.bookmarks),
		apps:      cloneMap(d.apps),
		rooms:     cloneMap(d.rooms),
		messages:  cloneMap(d.messages),
		resumes:   cloneMap(d.resumes),
		certs:     cloneMap(d.certs),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// next returns a fresh id and a strictly increasing timestamp. Callers hold mu.
func (s *MemStore) next() (int, time.Time) {
	s.seq++
	s.clock = s.clock.Add(time.Second)
	return s.seq, s.clock
}

func (s *MemStore) fail(op string) error {
	return s.FailOn[op]
}

func (s *MemStore) Users() repositories.UserRepository               { return memUsers{s} }
func (s *MemStore) Jobs() repositories.JobRepository                 { return memJobs{s} }
func (s *MemStore) Bookmarks() repositories.BookmarkRepository       { return memBookmarks{s} }
func (s *MemStore) Applications() repositories.ApplicationRepository { return memApps{s} }
func (s *MemStore) Rooms() repositories.ChatRepository               { return memRooms{s} }
func (s *MemStore) Messages() repositories.MessageRepository         { return memMessages{s} }
func (s *MemStore) Resumes() repositories.ResumeRepository           { return memResumes{s} }

func (s *MemStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Seed helpers.

func (s *MemStore) AddUser(nickname string, role models.Role, verified bool) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, now := s.next()
	u := models.User{ID: id, Nickname: nickname, Role: role, IsVerified: verified, CreatedAt: now, UpdatedAt: now}
	s.data.users[id] = u
	return u
}

func (s *MemStore) AddJob(authorID int, title string) models.JobPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, now := s.next()
	j := models.JobPost{ID: id, Kind: models.PostingGeneral, Title: title, AuthorID: authorID, CreatedAt: now, UpdatedAt: now}
	s.data.jobs[id] = j
	return j
}

// Inspection helpers.

func (s *MemStore) Job(id int) models.JobPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.jobs[id]
}

func (s *MemStore) Room(id int) models.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.rooms[id]
}

func (s *MemStore) ApplicationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.apps)
}

func (s *MemStore) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.rooms)
}

func (s *MemStore) MessagesIn(roomID int) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range s.data.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemStore) CertificateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.certs)
}

type memUsers struct{ s *MemStore }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Users.Create"); err != nil {
		return err
	}
	for _, u := range s.data.users {
		if user.Username != nil && u.Username != nil && *u.Username == *user.Username {
			return repositories.ErrDuplicate
		}
		if user.SocialID != nil && u.SocialID != nil && *u.SocialID == *user.SocialID && *u.SocialType == *user.SocialType {
			return repositories.ErrDuplicate
		}
	}
	id, now := s.next()
	user.ID, user.CreatedAt, user.UpdatedAt = id, now, now
	s.data.users[id] = *user
	return nil
}

func (r memUsers) find(match func(models.User) bool) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrUserNotFound
}

func (r memUsers) GetByID(_ context.Context, id int) (models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r memUsers) GetByUsername(_ context.Context, username string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Username != nil && *u.Username == username })
}

func (r memUsers) GetBySocial(_ context.Context, provider, socialID string) (models.User, error) {
	return r.find(func(u models.User) bool {
		return u.SocialType != nil && u.SocialID != nil && *u.SocialType == provider && *u.SocialID == socialID
	})
}

func (r memUsers) update(id int, fn func(*models.User)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(&u)
	_, u.UpdatedAt = s.next()
	s.data.users[id] = u
	return nil
}

func (r memUsers) SetBusinessRegistration(_ context.Context, id int, fileURL, original string) error {
	if err := r.s.fail("Users.SetBusinessRegistration"); err != nil {
		return err
	}
	return r.update(id, func(u *models.User) {
		u.BusinessRegistrationFile, u.BusinessRegistrationOriginal = &fileURL, &original
		u.Role, u.IsVerified = models.RoleCompany, false
	})
}

func (r memUsers) SetVerification(_ context.Context, id int, role models.Role, verified bool) error {
	return r.update(id, func(u *models.User) { u.Role, u.IsVerified = role, verified })
}

func (r memUsers) ListPendingCompanies(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.User
	for _, u := range r.s.data.users {
		if u.Role == models.RoleCompany && !u.IsVerified && u.BusinessRegistrationFile != nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

type memJobs struct{ s *MemStore }

func (r memJobs) Create(_ context.Context, post *models.JobPost) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	id, now := s.next()
	post.ID, post.CreatedAt, post.UpdatedAt = id, now, now
	s.data.jobs[id] = *post
	return nil
}

func (r memJobs) Get(_ context.Context, id int) (models.JobPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.data.jobs[id]
	if !ok {
		return models.JobPost{}, repositories.ErrJobNotFound
	}
	return j, nil
}

func (r memJobs) Update(_ context.Context, post *models.JobPost) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.jobs[post.ID]; !ok {
		return repositories.ErrJobNotFound
	}
	_, post.UpdatedAt = s.next()
	s.data.jobs[post.ID] = *post
	return nil
}

func (r memJobs) Delete(_ context.Context, id int) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.jobs[id]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(s.data.jobs, id)
	return nil
}

func (r memJobs) Search(_ context.Context, filter models.JobFilter) ([]models.JobPost, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(filter.Query)
	var matched []models.JobPost
	for _, j := range r.s.data.jobs {
		text := strings.ToLower(j.Title + " " + j.Company + " " + j.Description)
		if q != "" && !strings.Contains(text, q) {
			continue
		}
		if filter.Region != "" && (j.Region == nil || !strings.Contains(*j.Region, filter.Region)) {
			continue
		}
		if filter.Kind != "" && j.Kind != filter.Kind {
			continue
		}
		matched = append(matched, j)
	}
	sort.Slice(matched, func(a, b int) bool {
		x, y := matched[a], matched[b]
		switch filter.Sort {
		case models.SortPopular:
			if px, py := x.BookmarkCount+x.ApplicationCount, y.BookmarkCount+y.ApplicationCount; px != py {
				return px > py
			}
		case models.SortViews:
			if x.ViewCount != y.ViewCount {
				return x.ViewCount > y.ViewCount
			}
		}
		return x.ID > y.ID
	})
	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r memJobs) bump(op string, id int, fn func(*models.JobPost)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(op); err != nil {
		return err
	}
	j, ok := s.data.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	fn(&j)
	s.data.jobs[id] = j
	return nil
}

func (r memJobs) IncrementViewCount(_ context.Context, id int) error {
	return r.bump("Jobs.IncrementViewCount", id, func(j *models.JobPost) { j.ViewCount++ })
}

func (r memJobs) IncrementApplicationCount(_ context.Context, id int) error {
	return r.bump("Jobs.IncrementApplicationCount", id, func(j *models.JobPost) { j.ApplicationCount++ })
}

func (r memJobs) SyncBookmarkCount(_ context.Context, id int) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.data.jobs[id]
	if !ok {
		return 0, repositories.ErrJobNotFound
	}
	count := 0
	for key := range s.data.bookmarks {
		if key[1] == id {
			count++
		}
	}
	j.BookmarkCount = count
	s.data.jobs[id] = j
	return count, nil
}

type memBookmarks struct{ s *MemStore }

func (r memBookmarks) Exists(_ context.Context, userID, jobID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.data.bookmarks[[2]int{userID, jobID}]
	return ok, nil
}

func (r memBookmarks) Add(_ context.Context, userID, jobID int) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{userID, jobID}
	if _, ok := s.data.bookmarks[key]; ok {
		return false, nil
	}
	id, now := s.next()
	s.data.bookmarks[key] = models.JobBookmark{ID: id, UserID: userID, JobID: jobID, CreatedAt: now}
	return true, nil
}

func (r memBookmarks) Remove(_ context.Context, userID, jobID int) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{userID, jobID}
	_, ok := s.data.bookmarks[key]
	delete(s.data.bookmarks, key)
	return ok, nil
}

func (r memBookmarks) ListJobs(_ context.Context, userID int, _ models.JobSort) ([]models.JobPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var marks []models.JobBookmark
	for key, b := range r.s.data.bookmarks {
		if key[0] == userID {
			marks = append(marks, b)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].ID > marks[j].ID })
	out := make([]models.JobPost, 0, len(marks))
	for _, b := range marks {
		if j, ok := r.s.data.jobs[b.JobID]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r memBookmarks) BookmarkedAmong(_ context.Context, userID int, jobIDs []int) (map[int]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[int]bool{}
	for _, id := range jobIDs {
		if _, ok := r.s.data.bookmarks[[2]int{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

type memApps struct{ s *MemStore }

func (r memApps) Create(_ context.Context, app *models.JobApplication) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.data.apps {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return repositories.ErrDuplicate
		}
	}
	id, now := s.next()
	app.ID, app.CreatedAt, app.UpdatedAt = id, now, now
	s.data.apps[id] = *app
	return nil
}

func (r memApps) Get(_ context.Context, id int) (models.JobApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.apps[id]
	if !ok {
		return models.JobApplication{}, repositories.ErrApplicationNotFound
	}
	return a, nil
}

func (r memApps) FindByUserAndJob(_ context.Context, userID, jobID int) (*models.JobApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.apps {
		if a.UserID == userID && a.JobID == jobID {
			return &a, nil
		}
	}
	return nil, nil
}

func (r memApps) ListByUserForJobs(_ context.Context, userID int, jobIDs []int) ([]models.JobApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[int]bool{}
	for _, id := range jobIDs {
		want[id] = true
	}
	var out []models.JobApplication
	for _, a := range r.s.data.apps {
		if a.UserID == userID && want[a.JobID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r memApps) UpdateStatus(_ context.Context, id int, status models.ApplicationStatus) (models.JobApplication, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.apps[id]
	if !ok {
		return models.JobApplication{}, repositories.ErrApplicationNotFound
	}
	if a.Status != models.StatusPending {
		return models.JobApplication{}, repositories.ErrApplicationDecided
	}
	a.Status = status
	_, a.UpdatedAt = s.next()
	s.data.apps[id] = a
	return a, nil
}

func (r memApps) views(match func(models.JobApplication) bool) []models.ApplicationView {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ApplicationView
	for _, a := range r.s.data.apps {
		if !match(a) {
			continue
		}
		job := r.s.data.jobs[a.JobID]
		out = append(out, models.ApplicationView{
			JobApplication:    a,
			JobTitle:          job.Title,
			Company:           job.Company,
			ApplicantNickname: r.s.data.users[a.UserID].Nickname,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memApps) ListForUser(_ context.Context, userID int) ([]models.ApplicationView, error) {
	return r.views(func(a models.JobApplication) bool { return a.UserID == userID }), nil
}

func (r memApps) ListForJob(_ context.Context, jobID int) ([]models.ApplicationView, error) {
	return r.views(func(a models.JobApplication) bool { return a.JobID == jobID }), nil
}

type memRooms struct{ s *MemStore }

func (r memRooms) Get(_ context.Context, roomID int) (models.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.data.rooms[roomID]
	if !ok {
		return models.ChatRoom{}, repositories.ErrRoomNotFound
	}
	return room, nil
}

func (r memRooms) Lock(ctx context.Context, roomID int) (models.ChatRoom, error) {
	return r.Get(ctx, roomID)
}

func (r memRooms) LockTriple(_ context.Context, jobID, applicantID, employerID int) (*models.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.data.rooms {
		if room.JobID == jobID && room.ApplicantID == applicantID && room.EmployerID == employerID {
			return &room, nil
		}
	}
	return nil, nil
}

func (r memRooms) Insert(ctx context.Context, jobID, applicantID, employerID int) (*models.ChatRoom, error) {
	existing, _ := r.LockTriple(ctx, jobID, applicantID, employerID)
	if existing != nil {
		return nil, nil
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Rooms.Insert"); err != nil {
		return nil, err
	}
	id, now := s.next()
	room := models.ChatRoom{ID: id, JobID: jobID, ApplicantID: applicantID, EmployerID: employerID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.data.rooms[id] = room
	return &room, nil
}

func (r memRooms) SaveState(_ context.Context, room *models.ChatRoom) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data.rooms[room.ID]
	if !ok {
		return repositories.ErrRoomNotFound
	}
	stored.IsActive, stored.ApplicantLeft, stored.EmployerLeft = room.IsActive, room.ApplicantLeft, room.EmployerLeft
	_, stored.UpdatedAt = s.next()
	room.UpdatedAt = stored.UpdatedAt
	s.data.rooms[room.ID] = stored
	return nil
}

func (r memRooms) Touch(_ context.Context, roomID int) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.data.rooms[roomID]; ok {
		_, room.UpdatedAt = s.next()
		s.data.rooms[roomID] = room
	}
	return nil
}

func (r memRooms) FindForJob(_ context.Context, jobID, userID int) (*models.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *models.ChatRoom
	for _, room := range r.s.data.rooms {
		if room.JobID == jobID && room.IsParticipant(userID) && (found == nil || room.UpdatedAt.After(found.UpdatedAt)) {
			room := room
			found = &room
		}
	}
	return found, nil
}

func (r memRooms) ListVisible(_ context.Context, userID int) ([]models.RoomSummary, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RoomSummary
	for _, room := range s.data.rooms {
		if !room.VisibleTo(userID) {
			continue
		}
		other := s.data.users[room.OtherParty(userID)]
		summary := models.RoomSummary{
			Room:        room,
			JobTitle:    s.data.jobs[room.JobID].Title,
			OtherUser:   models.UserRef{ID: other.ID, Nickname: other.Nickname, Role: other.Role},
			UnreadCount: s.unreadLocked(userID, room.ID),
		}
		for _, m := range s.data.messages {
			if m.RoomID == room.ID && (summary.LastMessage == nil || m.ID > summary.LastMessage.ID) {
				m := m
				summary.LastMessage = &m
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room.UpdatedAt.After(out[j].Room.UpdatedAt) })
	return out, nil
}

// unreadLocked mirrors the SQL unread filter. roomID 0 counts every room.
func (s *MemStore) unreadLocked(userID, roomID int) int {
	count := 0
	for _, m := range s.data.messages {
		if roomID != 0 && m.RoomID != roomID {
			continue
		}
		room := s.data.rooms[m.RoomID]
		if !room.VisibleTo(userID) || m.SenderID == userID || m.IsRead || m.MessageType == models.MessageSystem {
			continue
		}
		count++
	}
	return count
}

type memMessages struct{ s *MemStore }

func (r memMessages) Create(_ context.Context, roomID, senderID int, body string, msgType models.MessageType) (models.ChatMessage, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Messages.Create"); err != nil {
		return models.ChatMessage{}, err
	}
	id, now := s.next()
	msg := models.ChatMessage{ID: id, RoomID: roomID, SenderID: senderID, Message: body, MessageType: msgType, CreatedAt: now}
	s.data.messages[id] = msg
	return msg, nil
}

func (r memMessages) List(_ context.Context, roomID, limit, offset int) ([]models.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.ChatMessage
	for _, m := range r.s.data.messages {
		if m.RoomID == roomID {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r memMessages) MarkRead(_ context.Context, roomID, readerID int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var updated int64
	for id, m := range r.s.data.messages {
		if m.RoomID == roomID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			r.s.data.messages[id] = m
			updated++
		}
	}
	return updated, nil
}

func (r memMessages) UnreadCountForUser(_ context.Context, userID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.unreadLocked(userID, 0), nil
}

func (r memMessages) UnreadCountForRoom(_ context.Context, roomID, userID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.unreadLocked(userID, roomID), nil
}

type memResumes struct{ s *MemStore }

func (r memResumes) GetByUser(_ context.Context, userID int) (models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.data.resumes {
		if res.UserID == userID {
			return res, nil
		}
	}
	return models.Resume{}, repositories.ErrResumeNotFound
}

func (r memResumes) Upsert(ctx context.Context, resume *models.Resume) error {
	existing, err := r.GetByUser(ctx, resume.UserID)
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	id, now := s.next()
	if err == nil {
		id = existing.ID
		resume.CreatedAt = existing.CreatedAt
	} else {
		resume.CreatedAt = now
	}
	resume.ID, resume.UpdatedAt = id, now
	stored := *resume
	stored.Certificates = nil
	s.data.resumes[id] = stored
	return nil
}

func (r memResumes) ListCertificates(_ context.Context, resumeID int) ([]models.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Certificate{}
	for _, c := range r.s.data.certs {
		if c.ResumeID == resumeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memResumes) AddCertificate(_ context.Context, cert *models.Certificate) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Resumes.AddCertificate"); err != nil {
		return err
	}
	id, now := s.next()
	cert.ID, cert.CreatedAt = id, now
	s.data.certs[id] = *cert
	return nil
}

func (r memResumes) GetCertificate(_ context.Context, certID int) (models.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.certs[certID]
	if !ok {
		return models.Certificate{}, repositories.ErrCertificateNotFound
	}
	return c, nil
}

func (r memResumes) DeleteCertificate(_ context.Context, certID int) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.certs[certID]; !ok {
		return repositories.ErrCertificateNotFound
	}
	delete(s.data.certs, certID)
	return nil
}

var _ repositories.Store = (*MemStore)(nil)
