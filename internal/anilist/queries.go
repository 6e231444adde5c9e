package anilist

// mediaDetailsQuery fetches everything the anime page shows for one title
const mediaDetailsQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    idMal
    title { romaji english native }
    description
    coverImage { large extraLarge }
    bannerImage
    trailer { id site thumbnail }
    episodes
    duration
    season
    seasonYear
    status
    format
    genres
    averageScore
    meanScore
    popularity
    trending
    countryOfOrigin
    studios { nodes { name } }
    staff { edges { role node { name { full } } } }
    nextAiringEpisode { episode airingAt timeUntilAiring }
    relations {
      edges {
        id
        relationType
        node {
          id
          title { romaji english }
          coverImage { large }
          type
          format
          episodes
          status
          season
          seasonYear
          averageScore
        }
      }
    }
  }
}`

const pageInfoFields = `pageInfo { total perPage currentPage lastPage hasNextPage }`

// searchQuery finds anime by title, most popular first
const searchQuery = `
query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    ` + pageInfoFields + `
    media(search: $search, type: ANIME, sort: [POPULARITY_DESC]) {
      id
      title { romaji english native }
      coverImage { large }
      averageScore
      episodes
      status
      season
      seasonYear
      format
    }
  }
}`

const listMediaFields = `
      id
      title { romaji english native }
      description
      coverImage { large }
      averageScore
      episodes
      status
      season
      seasonYear
      format
      genres
      studios { nodes { name } }`

// trendingQuery lists anime by current trend score
const trendingQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    ` + pageInfoFields + `
    media(type: ANIME, sort: [TRENDING_DESC]) {` + listMediaFields + `
    }
  }
}`

// popularQuery lists anime by all-time popularity
const popularQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    ` + pageInfoFields + `
    media(type: ANIME, sort: [POPULARITY_DESC]) {` + listMediaFields + `
    }
  }
}`
