package service

import (
	"context"
	"time"

	"github.com/devmetrics/langstats/config"
	"github.com/devmetrics/langstats/model"
	"github.com/devmetrics/langstats/stats"
	"github.com/google/go-github/v66/github"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"golang.org/x/time/rate"
)

type GithubService interface {
	FetchUserRepositories(ctx context.Context, username string) ([]model.RepositoryRef, error)
	CollectLanguagesForUser(ctx context.Context, username string) (model.UserLanguages, error)
	CollectLanguagesForUsers(ctx context.Context, usernames []string) []model.UserLanguages
	FetchLanguagesForSingleRepository(ctx context.Context, r model.RepositoryRef, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryLanguages)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// ListRepositories rate limit = 60 calls per hour for non-authenticated and 5000 calls for authenticated
// ListLanguages has the same core limit, so one limiter covers both request types
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

// FetchUserRepositories returns up to 50 repositories owned by the given user
// forked or contributed-to repositories are excluded by the owner type filter
func (s githubService) FetchUserRepositories(ctx context.Context, username string) ([]model.RepositoryRef, error) {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return []model.RepositoryRef{}, model.ErrRateLimitReached
	}

	log.WithFields(log.Fields{
		"username": username,
	}).Info("fetch owned repositories from github")

	repos, _, err := s.githubClient.Repositories.ListByUser(
		ctx,
		username,
		&github.RepositoryListByUserOptions{
			Type: "owner",
			ListOptions: github.ListOptions{
				Page:    1,
				PerPage: 50,
			},
		},
	)

	if err != nil {
		return []model.RepositoryRef{}, s.HandleRequestErrors(err)
	}

	// build a descriptor for each repo
	repositoryRefs := make([]model.RepositoryRef, 0, len(repos))

	for _, r := range repos {

		if r == nil || r.ID == nil || r.Owner == nil || r.Owner.Login == nil || r.Name == nil {
			log.WithFields(log.Fields{
				"username": username,
			}).Debug("repository found with invalid information. skipped")

			continue
		}

		repositoryRefs = append(repositoryRefs, model.RepositoryRef{
			ID:               *r.ID,
			FullName:         r.GetFullName(),
			Owner:            *r.Owner.Login,
			Repository:       *r.Name,
			MostUsedLanguage: r.Language,
		})
	}

	return repositoryRefs, nil
}

// CollectLanguagesForUser lists a user's repositories and merges their language byte counts
// language fetches are parallelized with a sized wait group
// a listing failure propagates to the caller, a single repository failure never does
func (s githubService) CollectLanguagesForUser(ctx context.Context, username string) (model.UserLanguages, error) {
	repos, err := s.FetchUserRepositories(ctx, username)

	if err != nil {
		return model.UserLanguages{Name: username, Langs: model.LanguageMap{}}, err
	}

	// count number of repositories where the languages are available for loading
	// if there is not enought request on rate limiter to load all of them, return an error here
	// this avoid to load the languages not completly
	reposWithLanguagesToLoad := 0

	for _, r := range repos {
		if r.MostUsedLanguage != nil {
			reposWithLanguagesToLoad += 1
		}
	}

	if !s.githubRateLimiter.AllowN(time.Now(), reposWithLanguagesToLoad) {
		log.WithField("repositoriesToLoad", reposWithLanguagesToLoad).Warning("not enought requests in rate limiter to load languages for all repositories")
		return model.UserLanguages{Name: username, Langs: model.LanguageMap{}}, model.ErrRateLimitReached
	}

	log.WithFields(log.Fields{
		"username":             username,
		"numberOfRepositories": reposWithLanguagesToLoad,
	}).Debug("will load languages from all repositories found with main language available")

	// create a group to wait for all goroutines to finish
	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	results := make(chan model.RepositoryLanguages, len(repos))

	for _, r := range repos {

		// check if the main language (most used) is available for the repo
		// if not, ListLanguages would return an empty map anyway and the request can be skipped
		// this will save some requests regarding to the rate limit
		if r.MostUsedLanguage == nil {
			results <- model.RepositoryLanguages{RepositoryID: r.ID, Languages: model.LanguageMap{}}
		} else {
			swg.Add()
			go s.FetchLanguagesForSingleRepository(ctx, r, &swg, results)
		}
	}

	// wait for all tasks to be finished
	swg.Wait()
	close(results)

	recovered := 0
	languageMaps := make([]model.LanguageMap, 0, len(repos))

	for result := range results {
		if result.Recovered {
			recovered += 1
		}

		languageMaps = append(languageMaps, result.Languages)
	}

	if recovered > 0 {
		log.WithFields(log.Fields{
			"username":     username,
			"repositories": recovered,
		}).Debug("some repositories could not be loaded and count as empty")
	}

	return model.UserLanguages{Name: username, Langs: stats.Merge(languageMaps...)}, nil
}

// CollectLanguagesForUsers runs the per-user collection concurrently for every username
// results are written by index so the output order always matches the argument order
// a user whose repository listing fails is downgraded to an empty language map
// with a warning, it never aborts the rest of the batch
func (s githubService) CollectLanguagesForUsers(ctx context.Context, usernames []string) []model.UserLanguages {
	results := make([]model.UserLanguages, len(usernames))

	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	for i, username := range usernames {
		swg.Add()

		go func(i int, username string) {
			defer swg.Done()

			userLanguages, err := s.CollectLanguagesForUser(ctx, username)

			if err != nil {
				log.WithError(err).WithField("username", username).Warning("unable to collect languages for user. will count as empty")
			}

			results[i] = userLanguages
		}(i, username)
	}

	swg.Wait()
	return results
}

// FetchLanguagesForSingleRepository get the languages for a specific repository
// any failure is downgraded to a recovered empty result on the channel: one bad
// repository must not prevent the others from contributing to the user total
// note: we are not checking the rate limit in this function, because done in the parent function
// note: take care if you call this function from another function
func (s githubService) FetchLanguagesForSingleRepository(ctx context.Context, r model.RepositoryRef, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryLanguages) {
	defer swg.Done()

	log.WithFields(log.Fields{
		"repositoryID":     r.ID,
		"mostUsedLanguage": r.MostUsedLanguage,
	}).Debug("fetch languages for repository")

	res, _, err := s.githubClient.Repositories.ListLanguages(
		ctx,
		r.Owner,
		r.Repository,
	)

	if err != nil {
		ch <- model.RepositoryLanguages{
			RepositoryID: r.ID,
			Languages:    model.LanguageMap{},
			Recovered:    true,
			Reason:       s.HandleRequestErrors(err).Error(),
		}

		return
	}

	ch <- model.RepositoryLanguages{RepositoryID: r.ID, Languages: res}
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	if _, ok := err.(*github.RateLimitError); ok {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			return model.ErrRateLimiter
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimitReached
	}

	log.WithError(err).Debug("error catched when fetching data from github")
	return model.ErrFetch
}
